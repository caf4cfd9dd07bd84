package main

import (
	"log"
	"os"

	"learnly/cmd/learnly/commands"
	_ "learnly/docs"

	"github.com/spf13/cobra"
)

// @title           Learnly API
// @version         1.0
// @description     API for study groups and their shared task lists.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	rootCmd := &cobra.Command{
		Use:   "learnly",
		Short: "Learnly API server",
		Long:  "Learnly keeps study groups, their members and a shared task list per group.",
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
