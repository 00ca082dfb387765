package policy

// bootstrapSystemPaths is the fixed set of read paths every backend allows
// so a dynamically linked program can start, regardless of the capability
// set. It deliberately never includes home directories, /tmp, or user
// config: those must come from an explicit grant.
var bootstrapSystemPaths = []string{
	"/lib",
	"/lib64",
	"/usr/lib",
	"/usr/lib64",
	"/usr/libexec",
	"/etc/ld.so.cache",
	"/etc/ld.so.conf",
	"/etc/ld.so.conf.d",
	"/etc/localtime",
	"/etc/locale.conf",
	"/usr/share/locale",
	"/usr/share/zoneinfo",
	"/proc/self",
}
