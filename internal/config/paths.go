package config

import (
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
)

type Paths struct {
	// DataDir is the directory the history file is written to.
	DataDir *string
	// Config is the path of the YAML configuration file listing
	// the hosted zones to monitor.
	Config *string
}

func (p *Paths) setDefaults() {
	p.DataDir = gosettings.DefaultPointer(p.DataDir, "./data")
	p.Config = gosettings.DefaultPointer(p.Config, "./config.yaml")
}

func (p Paths) Validate() (err error) {
	return nil
}

func (p Paths) String() string {
	return p.toLinesNode().String()
}

func (p Paths) toLinesNode() *gotree.Node {
	node := gotree.New("Paths")
	node.Appendf("Data directory: %s", *p.DataDir)
	node.Appendf("Configuration file: %s", *p.Config)
	return node
}

func (p *Paths) read(r *reader.Reader) {
	p.DataDir = r.Get("DATADIR", reader.ForceLowercase(false))
	p.Config = r.Get("CONFIG", reader.ForceLowercase(false))
}
