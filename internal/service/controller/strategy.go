package controller

import (
	"github.com/oshokin/cribl-upgrade/internal/config"
	"github.com/oshokin/cribl-upgrade/internal/executor"
	"github.com/oshokin/cribl-upgrade/internal/platform"
)

const (
	// ServiceName is the identifier the application is registered under with the service manager.
	ServiceName = "cribl"

	// systemctlExecutable manages systemd units.
	systemctlExecutable = "systemctl"
	// serviceExecutable is the generic SysV-style service wrapper.
	serviceExecutable = "service"
)

// Action is the lifecycle verb passed to the service manager or the application binary.
type Action string

const (
	// ActionStart starts the application.
	ActionStart Action = "start"
	// ActionStop stops the application.
	ActionStop Action = "stop"
)

// Strategy knows how to express an Action as an external command.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	// Command returns the invocation that performs action.
	Command(action Action) executor.Command
}

// Systemd controls the application through its systemd unit.
type Systemd struct {
	// Unit is the unit name including the .service suffix.
	Unit string
}

// Name implements Strategy.
func (s Systemd) Name() string {
	return "systemd"
}

// Command implements Strategy.
func (s Systemd) Command(action Action) executor.Command {
	return executor.Command{
		Name: systemctlExecutable,
		Args: []string{string(action), s.Unit},
	}
}

// SysV controls the application through the generic service command.
type SysV struct {
	// Service is the registered service name.
	Service string
}

// Name implements Strategy.
func (s SysV) Name() string {
	return "service"
}

// Command implements Strategy.
func (s SysV) Command(action Action) executor.Command {
	return executor.Command{
		Name: serviceExecutable,
		Args: []string{s.Service, string(action)},
	}
}

// Direct controls the application by invoking its own executable.
type Direct struct {
	// Executable is the path to the application binary.
	Executable string
}

// Name implements Strategy.
func (d Direct) Name() string {
	return "direct"
}

// Command implements Strategy.
func (d Direct) Command(action Action) executor.Command {
	return executor.Command{
		Name: d.Executable,
		Args: []string{string(action)},
	}
}

// StrategyFor picks the strategy for the configured mode and the detected platform family.
// Without the service flag the binary is always invoked directly.
//
//nolint:ireturn // Callers only need the Strategy behavior.
func StrategyFor(cfg config.Config, family platform.Family) Strategy {
	if !cfg.IsService {
		return Direct{Executable: cfg.ExecutablePath()}
	}

	switch family {
	case platform.FamilyDebian:
		return Systemd{Unit: ServiceName + ".service"}
	default:
		return SysV{Service: ServiceName}
	}
}
