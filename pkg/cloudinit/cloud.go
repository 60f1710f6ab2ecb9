package cloudinit

// Reporter receives progress events from a module. The runner never sets one.
type Reporter interface {
	Report(event, description string)
}

// Cloud is the execution context handed to a module.
type Cloud struct {
	Datasource *DataSourceNone
	Paths      *Paths
	SysCfg     map[string]any
	Distro     Distro
	Reporter   Reporter
}

func NewCloud(ds *DataSourceNone, paths *Paths, sysCfg map[string]any, distro Distro, reporter Reporter) *Cloud {
	return &Cloud{
		Datasource: ds,
		Paths:      paths,
		SysCfg:     sysCfg,
		Distro:     distro,
		Reporter:   reporter,
	}
}
