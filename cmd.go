package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type RuntimeArguments struct {
	// EnableService: Provide the HTTP APIs.
	EnableService bool
	// EnableDebug: Keep gin in debug mode.
	EnableDebug bool
	// EnablePprof: Register the pprof routes.
	EnablePprof bool
	// ConfigFilePath: Path to config.json.
	ConfigFilePath string
	// MetricAddr: Listen address of the prometheus endpoint.
	MetricAddr string
}

func NewRuntimeArguments() *RuntimeArguments {
	return &RuntimeArguments{}
}

func (arguments *RuntimeArguments) MakeCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "trainer-minter",
		Short: "Runs the trainer storefront minting daemon.",
		Long: `
		Trainer-minter drives delegate inscription mints for the trainer storefront. It normalizes the UniSat and Xverse wallet bridges behind one adapter, sequences the minting workflow (inscription order, payment set, batched payment), keeps the current network fee tiers fresh, and serves the mint-event logging and listing endpoints.

		Flags:
		- "--service/-s": Serve the HTTP APIs (workflow, wallet, logging, listing).
		- "--debug": Keep gin in debug mode and log verbosely.
		- "--pprof": Register the pprof debug routes on the API service.
		`,

		Run: func(cmd *cobra.Command, args []string) {
			if arguments.EnableService {
				log.Println("Service mode is enabled.")
			} else {
				log.Println("Service mode is disabled.")
			}
			if arguments.EnablePprof {
				log.Println("Pprof is enabled.")
			}
			Execution(arguments)
		},
	}

	rootCmd.Flags().BoolVarP(&arguments.EnableService, "service", "s", true, "Enable this flag to provide the HTTP API service")
	rootCmd.Flags().BoolVarP(&arguments.EnableDebug, "debug", "", false, "Enable this flag to keep gin in debug mode")
	rootCmd.Flags().BoolVarP(&arguments.EnablePprof, "pprof", "", false, "Enable this flag to register the pprof routes")
	rootCmd.Flags().StringVarP(&arguments.ConfigFilePath, "config", "c", "config.json", "Path to the config file")
	rootCmd.Flags().StringVarP(&arguments.MetricAddr, "metrics", "", ":9153", "Listen address of the prometheus endpoint")

	return rootCmd
}
