package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mcptools "github.com/shaharia-lab/executepython-mcp"
	"github.com/shaharia-lab/executepython-mcp/gateway"
)

const serverName = "executepythonmcp"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type app struct {
	v      *viper.Viper
	cfg    Config
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stderr: stderr}

	root := &cobra.Command{
		Use:   serverName,
		Short: "MCP server that runs Python scripts and returns their output",
		Long: `executepythonmcp exposes a single MCP tool, execute_python, over stdio.
The tool runs a .py file with the configured (or caller supplied) interpreter, using the
script's directory as working directory, and returns the captured output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: a.serve,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	registerConfigFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the execute_python tool over stdio (default)",
			Args:  cobra.NoArgs,
			RunE:  a.serve,
		},
		&cobra.Command{
			Use:   "run <file.py> [interpreter]",
			Short: "Run a script once the way the tool would and print the result",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  a.run,
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE:  a.printConfig,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", serverName, version)
				return err
			},
		},
	)

	return root
}

func (a *app) newTool() (*mcptools.LogrusLogger, *mcptools.ExecutePython, error) {
	lc := a.cfg.LoggerConfig()
	lc.Output = a.stderr
	logger, err := mcptools.NewLogrusLogger(lc)
	if err != nil {
		return nil, nil, err
	}
	tool, err := mcptools.NewExecutePython(logger, a.cfg.PythonConfig())
	if err != nil {
		return nil, nil, err
	}
	return logger, tool, nil
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	logger, tool, err := a.newTool()
	if err != nil {
		return err
	}

	cfg := tool.Runner().Config()
	logger.WithFields(map[string]interface{}{
		"version":     version,
		"interpreter": cfg.DefaultInterpreter,
		"mode":        string(cfg.Mode),
		"timeout":     cfg.Timeout.String(),
	}).Info("Starting ExecutePythonMCP server")

	srv, err := gateway.New(gateway.Info{Name: serverName, Version: version}, logger, tool.ExecutePythonTool())
	if err != nil {
		return err
	}
	return srv.RunStdio(cmd.Context())
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	_, tool, err := a.newTool()
	if err != nil {
		return err
	}

	interpreter := ""
	if len(args) == 2 {
		interpreter = args[1]
	}
	res, runErr := tool.Runner().Run(cmd.Context(), args[0], interpreter)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), mcptools.Render(res, runErr))
	return err
}

func (a *app) printConfig(cmd *cobra.Command, _ []string) error {
	out, err := encodeYAML(a.cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func execute() int {
	ctx, stop := signalContext()
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
