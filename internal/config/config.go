// Package config reads, checks and prints the settings of the
// program, taken from environment variables.
package config

import (
	"fmt"

	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
	"github.com/zonewatch/zonewatch/internal/resolver"
)

type Config struct {
	Client   Client
	Provider Provider
	Resolver resolver.Settings
	Monitor  Monitor
	Server   Server
	Health   Health
	Paths    Paths
	Backup   Backup
	Logger   Logger
	Shoutrrr Shoutrrr
}

func (c *Config) SetDefaults() {
	c.Client.setDefaults()
	c.Provider.setDefaults()
	c.Resolver.SetDefaults()
	c.Monitor.setDefaults()
	c.Server.setDefaults()
	c.Health.SetDefaults()
	c.Paths.setDefaults()
	c.Backup.setDefaults()
	c.Logger.setDefaults()
	c.Shoutrrr.setDefaults()
}

func (c Config) Validate() (err error) {
	type validator interface {
		Validate() (err error)
	}
	toValidate := map[string]validator{
		"client":   &c.Client,
		"provider": &c.Provider,
		"resolver": &c.Resolver,
		"monitor":  &c.Monitor,
		"server":   &c.Server,
		"health":   &c.Health,
		"paths":    &c.Paths,
		"backup":   &c.Backup,
		"logger":   &c.Logger,
		"shoutrrr": &c.Shoutrrr,
	}

	for name, v := range toValidate {
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("%s settings: %w", name, err)
		}
	}

	return nil
}

func (c Config) String() string {
	return c.toLinesNode().String()
}

func (c Config) toLinesNode() *gotree.Node {
	node := gotree.New("Settings summary:")
	node.AppendNode(c.Client.toLinesNode())
	node.AppendNode(c.Provider.toLinesNode())
	node.AppendNode(c.Resolver.ToLinesNode())
	node.AppendNode(c.Monitor.toLinesNode())
	node.AppendNode(c.Server.toLinesNode())
	node.AppendNode(c.Health.toLinesNode())
	node.AppendNode(c.Paths.toLinesNode())
	node.AppendNode(c.Backup.toLinesNode())
	node.AppendNode(c.Logger.toLinesNode())
	node.AppendNode(c.Shoutrrr.ToLinesNode())
	return node
}

func (c *Config) Read(r *reader.Reader) (err error) {
	err = c.Client.read(r)
	if err != nil {
		return fmt.Errorf("reading client settings: %w", err)
	}

	c.Provider.read(r)

	c.Resolver, err = readResolver(r)
	if err != nil {
		return fmt.Errorf("reading resolver settings: %w", err)
	}

	err = c.Monitor.read(r)
	if err != nil {
		return fmt.Errorf("reading monitor settings: %w", err)
	}

	err = c.Server.read(r)
	if err != nil {
		return fmt.Errorf("reading server settings: %w", err)
	}

	c.Health.Read(r)
	c.Paths.read(r)

	err = c.Backup.read(r)
	if err != nil {
		return fmt.Errorf("reading backup settings: %w", err)
	}

	err = c.Logger.read(r)
	if err != nil {
		return fmt.Errorf("reading logger settings: %w", err)
	}

	c.Shoutrrr.read(r)

	return nil
}
