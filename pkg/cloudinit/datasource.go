package cloudinit

// DataSourceNone is a datasource that never touches the network and
// provides no metadata.
type DataSourceNone struct {
	SysCfg map[string]any
	Distro Distro
	Paths  *Paths
}

func NewDataSourceNone(sysCfg map[string]any, distro Distro, paths *Paths) *DataSourceNone {
	return &DataSourceNone{SysCfg: sysCfg, Distro: distro, Paths: paths}
}

func (d *DataSourceNone) Name() string              { return "None" }
func (d *DataSourceNone) InstanceID() string        { return "iid-datasource-none" }
func (d *DataSourceNone) Metadata() map[string]any  { return map[string]any{} }
func (d *DataSourceNone) Hostname() (string, error) { return "localhost", nil }
