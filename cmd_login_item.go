package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loginItemCmd = &cobra.Command{
	Use:   "login-item",
	Short: "Manage the launch-at-login listener",
}

var loginItemEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start `selected-text listen` automatically at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := NewLoginItemService()
		if err != nil {
			return err
		}
		execPath, err := os.Executable()
		if err != nil {
			return err
		}
		if err := svc.Enable(execPath); err != nil {
			return err
		}
		fmt.Println("login item enabled")
		return nil
	},
}

var loginItemDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove the launch-at-login listener",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := NewLoginItemService()
		if err != nil {
			return err
		}
		if err := svc.Disable(); err != nil {
			return err
		}
		fmt.Println("login item disabled")
		return nil
	},
}

var loginItemStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the listener starts at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := NewLoginItemService()
		if err != nil {
			return err
		}
		if svc.IsEnabled() {
			fmt.Println("login item: enabled")
		} else {
			fmt.Println("login item: disabled")
		}
		return nil
	},
}

func init() {
	loginItemCmd.AddCommand(loginItemEnableCmd, loginItemDisableCmd, loginItemStatusCmd)
	rootCmd.AddCommand(loginItemCmd)
}
