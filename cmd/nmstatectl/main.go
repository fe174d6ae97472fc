// Package main provides the entry point for nmstatectl.
//
// nmstatectl applies a desired network state (optionally computed by
// a capture/template policy document) against a backend and verifies
// the result against a probe. By default it runs interface/route/DNS
// activation against the in-memory reference Backend/Probe pair
// (pkg/backend/memory), since the real NetworkManager transport is
// out of scope; the orchestrator, merger, and verifier it drives are
// the same ones a real backend would use. Pass --ovsdb-address to
// additionally push the desired state's OVN bridge-mapping list to a
// real Open vSwitch database over that one narrow OVSDB slice. Pass
// --real-probe to verify against the host's actual kernel networking
// state (pkg/probe/netlinkprobe) instead of the in-memory Backend's
// own bookkeeping.
//
// Usage:
//
//	nmstatectl --state-file desired.yaml
//	nmstatectl --policy-file policy.yaml --current-file current.yaml
//	nmstatectl --state-file desired.yaml --ovsdb-address unix:/run/openvswitch/db.sock
//	nmstatectl --state-file desired.yaml --real-probe
//
// Flags:
//
//	--state-file string     Desired NetworkState YAML file
//	--policy-file string    Policy document (capture rules + templated desiredState) YAML file
//	--current-file string   Seeds the reference backend's initial state (default: empty)
//	--ovsdb-address string  OVSDB endpoint for pushing OVN bridge-mappings (overrides config)
//	--real-probe            Verify against the host's kernel state instead of the in-memory Backend
//	--config string         Path to an nmconfig file (can also use NMSTATE_CONFIG_FILE)
//	--log-level string      debug, info, warn, error (overrides config)
//	--version               Print version information and exit
//
// Reference: cmd/zstack-ovnkube-node/main.go's flag/signal-handling shape.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/nmstate/nmstate-go/pkg/apply"
	"github.com/nmstate/nmstate-go/pkg/backend/memory"
	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmconfig"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
	"github.com/nmstate/nmstate-go/pkg/nmlog"
	"github.com/nmstate/nmstate-go/pkg/ovsdb"
	"github.com/nmstate/nmstate-go/pkg/policy"
	"github.com/nmstate/nmstate-go/pkg/probe/netlinkprobe"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// options holds nmstatectl's command-line flags.
type options struct {
	ConfigFile   string
	StateFile    string
	PolicyFile   string
	CurrentFile  string
	OVSDBAddress string
	RealProbe    bool
	LogLevel     string
	PrintVersion bool
}

func main() {
	opts := parseFlags()

	if opts.PrintVersion {
		printVersion()
		os.Exit(0)
	}

	if opts.ConfigFile != "" {
		os.Setenv("NMSTATE_CONFIG_FILE", opts.ConfigFile)
	}
	cfg, err := nmconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(nmerror.ExitCode(err))
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger, err := nmlog.New(nmlog.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	nmlog.SetGlobal(logger)
	defer logger.Sync()

	log := logger.WithName("nmstatectl")
	log.Info("starting nmstatectl", "version", version, "commit", gitCommit, "built", buildDate)

	if err := run(opts, cfg, log); err != nil {
		log.Error(err, "apply failed")
		os.Exit(nmerror.ExitCode(err))
	}
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.ConfigFile, "config", "", "Path to an nmconfig file")
	flag.StringVar(&opts.StateFile, "state-file", "", "Desired NetworkState YAML file")
	flag.StringVar(&opts.PolicyFile, "policy-file", "", "Policy document (capture rules + templated desiredState) YAML file")
	flag.StringVar(&opts.CurrentFile, "current-file", "", "Seeds the reference backend's initial state")
	flag.StringVar(&opts.OVSDBAddress, "ovsdb-address", "", "OVSDB endpoint for pushing OVN bridge-mappings (overrides config)")
	flag.BoolVar(&opts.RealProbe, "real-probe", false, "Verify against the host's kernel state instead of the in-memory Backend")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.PrintVersion, "version", false, "Print version information and exit")
	flag.Parse()
	return opts
}

func printVersion() {
	fmt.Printf("nmstatectl\n")
	fmt.Printf("  Version:    %s\n", version)
	fmt.Printf("  Git Commit: %s\n", gitCommit)
	fmt.Printf("  Build Date: %s\n", buildDate)
}

func run(opts *options, cfg *nmconfig.Config, log logr.Logger) error {
	if opts.StateFile == "" && opts.PolicyFile == "" {
		return nmerror.InvalidArgument("nmstatectl", "one of --state-file or --policy-file is required")
	}

	current, err := loadCurrentState(opts.CurrentFile)
	if err != nil {
		return err
	}

	desired, err := resolveDesiredState(opts, current)
	if err != nil {
		return err
	}

	backend := memory.New(*current)

	var prober backendapi.Probe = memory.NewProbe(backend)
	if opts.RealProbe {
		prober = netlinkprobe.New()
	}

	ctx, cancel := apply.InstallSignalHandler(log)
	defer cancel()

	go apply.RunCheckpointReaper(ctx, backend, log.WithName("checkpoint-reaper"), 5*time.Second)

	orchestrator := &apply.Orchestrator{
		Backend: backend,
		Probe:   prober,
		Log:     log,
		Opts: apply.Options{
			Timeout:             cfg.Apply.Timeout,
			RetryBaseInterval:   cfg.Apply.RetryBaseInterval,
			RetryMaxAttempts:    cfg.Apply.RetryMaxAttempts,
			VerifyRetryAttempts: cfg.Apply.VerifyRetryAttempts,
			VerifyRetryInterval: cfg.Apply.VerifyRetryInterval,
		},
	}

	if opts.OVSDBAddress != "" {
		ovsdbClient, err := ovsdb.Connect(ctx, opts.OVSDBAddress)
		if err != nil {
			return nmerror.Retryable(err, "failed to connect to OVSDB at %s", opts.OVSDBAddress)
		}
		defer ovsdbClient.Disconnect()
		orchestrator.OVSDB = &ovsdb.Pusher{
			Client:  ovsdbClient,
			Log:     log.WithName("ovsdb"),
			Timeout: cfg.OVSDB.ConnectTimeout,
		}
	}

	result, err := orchestrator.Apply(ctx, desired)
	if err != nil {
		return err
	}
	log.Info("apply finished", "finalState", result.FinalState.String())
	return nil
}

// loadCurrentState reads the reference backend's initial state from
// path, or an empty state if path is empty.
func loadCurrentState(path string) (*model.NetworkState, error) {
	if path == "" {
		return &model.NetworkState{}, nil
	}
	doc, err := readYAMLDocument(path)
	if err != nil {
		return nil, err
	}
	return policy.DecodeNetworkState(doc)
}

// resolveDesiredState builds the desired NetworkState either directly
// from --state-file, or by running --policy-file's capture rules
// against current and substituting its templated desiredState.
func resolveDesiredState(opts *options, current *model.NetworkState) (*model.NetworkState, error) {
	if opts.PolicyFile != "" {
		raw, err := os.ReadFile(opts.PolicyFile)
		if err != nil {
			return nil, nmerror.InvalidArgument("nmstatectl", "failed to read policy file: %v", err)
		}
		var doc policy.Document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, nmerror.InvalidArgument("nmstatectl", "failed to parse policy file: %v", err)
		}
		return policy.Resolve(&doc, current)
	}

	doc, err := readYAMLDocument(opts.StateFile)
	if err != nil {
		return nil, err
	}
	return policy.DecodeNetworkState(doc)
}

func readYAMLDocument(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nmerror.InvalidArgument("nmstatectl", "failed to read %s: %v", path, err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nmerror.InvalidArgument("nmstatectl", "failed to parse %s: %v", path, err)
	}
	return doc, nil
}
