/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "postman-dynatrace-converter"

var log = logrus.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Convert Postman collections into Dynatrace synthetic HTTP monitors",
	Long: `postman-dynatrace-converter turns an exported Postman collection into a
Dynatrace synthetic HTTP monitor script document.

Postman {{variable}} placeholders become Dynatrace {variable} placeholders,
pm.* script calls are rewritten to the Dynatrace api.* equivalents and every
request keeps its method, URL, headers and body.

It also keeps a small local key/value note store for values such as
environment URLs or tokens used while preparing monitors.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./postman-dynatrace-converter.yaml or ~/.config/postman-dynatrace-converter/postman-dynatrace-converter.yaml)")
	rootCmd.PersistentFlags().StringP("verbosity", "v", "info", "Log level (trace, debug, info, warn, error)")
	viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))
	rootCmd.PersistentFlags().Bool("structuredLogs", false, "Write logs as JSON")
	viper.BindPFlag("structuredLogs", rootCmd.PersistentFlags().Lookup("structuredLogs"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	viper.SetEnvPrefix("PDC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

func configureLogging() {
	log.SetOutput(os.Stderr)

	logVerbosity := viper.GetString("verbosity")
	logLevel, err := logrus.ParseLevel(logVerbosity)
	if err != nil {
		log.Fatalf("Invalid log level: %s", logVerbosity)
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{})
	if viper.GetBool("structuredLogs") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	for key, value := range viper.GetViper().AllSettings() {
		log.Debugf("Command Flag: %s = %v", key, value)
	}
}
