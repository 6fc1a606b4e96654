package cmd

import (
	"fmt"

	nr "github.com/jdxcode/noderun/lib"
	"github.com/spf13/cobra"
)

func newInstallCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "install npm dependencies",
		Long:  "equivalent to `npm install` under the pinned node version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.action(cmd, nr.ActionInstall, func(r *nr.Runner) (int, error) {
				return r.InstallDependencies()
			})
		},
	}
}

func newBuildCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "build the project into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.action(cmd, nr.ActionBuild, func(r *nr.Runner) (int, error) {
				return r.BuildProject("")
			})
		},
	}
}

func newStartCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "run the development server in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.action(cmd, nr.ActionStart, func(r *nr.Runner) (int, error) {
				return r.StartDevServer()
			})
		},
	}
}

func (o *options) action(cmd *cobra.Command, action nr.Action, fn func(*nr.Runner) (int, error)) error {
	r, err := o.runner(cmd)
	if err != nil {
		return err
	}
	if o.dryRun {
		script, err := r.Plan(action, "")
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), script)
		return nil
	}
	o.exitCode, err = fn(r)
	return err
}

func newCreateCmd(o *options) *cobra.Command {
	var template string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "scaffold a new react project under --project-dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := nr.ParseTemplate(template)
			if err != nil {
				return err
			}
			r, err := o.runner(cmd)
			if err != nil {
				return err
			}
			if o.dryRun {
				script, err := r.PlanCreate(args[0], tmpl)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), script)
				return nil
			}
			o.exitCode, err = r.CreateDefaultProject(args[0], tmpl)
			return err
		},
	}
	createCmd.Flags().StringVarP(&template, "template", "t", string(nr.TemplateCRA), "cra or vite")
	return createCmd
}

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "show the detected project setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := o.runner(cmd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), r.Describe())
			return nil
		},
	}
}
