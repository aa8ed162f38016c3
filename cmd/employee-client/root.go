package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noah-isme/employee-admin-client/pkg/config"
	"github.com/noah-isme/employee-admin-client/pkg/logger"
)

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	app         *app
	metricsAddr string
}

// run executes one invocation and releases the wired services whether or not
// the command succeeded.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	c := &cli{}
	defer c.teardown()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "employee-client",
		Short: "Manage employees through the employee GraphQL service",
		Long: `employee-client talks to the employee GraphQL service.

Sign in once with 'login'; the token is kept in local storage and sent with
every request until 'logout'. Run 'browse' for the interactive browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.listCmd(),
		c.getCmd(),
		c.createCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.themeCmd(),
		c.exportCmd(),
		c.browseCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.metricsAddr != "" {
		cfg.Metrics.Addr = c.metricsAddr
	}
	if cmd.Name() == "browse" {
		cfg = logger.Interactive(cfg, filepath.Join(filepath.Dir(cfg.Storage.Path), "client.log"))
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	a, err := newApp(cmd.Context(), cfg, logr)
	if err != nil {
		_ = logr.Sync()
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown() {
	if c.app == nil {
		return
	}
	c.app.Close()
	_ = c.app.logger.Sync()
	c.app = nil
}
