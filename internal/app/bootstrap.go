package app

import (
	"modbot/internal/config"
	"modbot/internal/runtime/supervisor"
	"modbot/internal/transport/telegram/router"
)

// ---- Config ----

type Config = config.Config

type ConfigManager = config.ConfigManager

var NewConfigManager = config.NewConfigManager

var SummarizeConfigChange = config.SummarizeConfigChange

var durationOr = config.DurationOr

// ---- Runtime ----

type Supervisor = supervisor.Supervisor

type SupervisorRegistry = supervisor.Registry

var NewSupervisor = supervisor.NewSupervisor

var NewSupervisorRegistry = supervisor.NewRegistry

var WithLogger = supervisor.WithLogger

var WithCancelOnError = supervisor.WithCancelOnError

// ---- Router ----

type CommandManager = router.CommandManager

var NewCommandManager = router.NewCommandManager
