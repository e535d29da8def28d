package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ordshop/trainer-minter/apis"
	"github.com/ordshop/trainer-minter/fees"
	"github.com/ordshop/trainer-minter/internal/metrics"
	"github.com/ordshop/trainer-minter/minting"
	"github.com/ordshop/trainer-minter/mintlog"
	"github.com/ordshop/trainer-minter/wallet"
)

var (
	version = "latest"
	gitHash = "unknown"
)

func Execution(arguments *RuntimeArguments) {
	go metrics.ListenAndServe(arguments.MetricAddr)
	metrics.Version.WithLabelValues(version).Set(1)
	metrics.Stage.Set(metrics.StageInitializing)

	// Get the configuration.
	configFile, err := os.ReadFile(arguments.ConfigFilePath)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	if err := json.Unmarshal(configFile, &GlobalConfig); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	store, err := mintlog.Open(mintlog.StoreConfig{
		Method: GlobalConfig.Store.Method,
		Path:   GlobalConfig.Store.Path,
		DSN:    GlobalConfig.Store.DSN,
	})
	if err != nil {
		log.Fatalf("Failed to open the mint store: %v", err)
	}
	defer store.Close()

	wallets := wallet.NewManager(
		wallet.NewUnisatProvider(GlobalConfig.Wallets.Unisat.URL),
		wallet.NewXverseProvider(GlobalConfig.Wallets.Xverse.URL),
	)
	wallets.Restore(context.Background())

	advisor := fees.NewAdvisor(fees.NewClient(GlobalConfig.Fees.URL))
	advisor.Start(context.Background())
	defer advisor.Stop()

	inscriber := minting.NewInscriberClient(GlobalConfig.Backend.APIURL)
	logger := mintlog.NewLogger(GlobalConfig.MintLog.URL)
	orchestrator := minting.NewOrchestrator(wallets, inscriber, advisor, logger, GlobalConfig.Backend.AdminPaymentAddress)

	service := &apis.Service{
		Wallets:        wallets,
		Orchestrator:   orchestrator,
		Advisor:        advisor,
		Store:          store,
		AdminAddresses: GlobalConfig.AdminAddresses,
	}
	if GlobalConfig.Report.Method == "S3" {
		s3cfg := GlobalConfig.Report.S3
		service.S3 = &s3cfg
	}

	metrics.Stage.Set(metrics.StageServing)

	if arguments.EnableService {
		log.Printf("Providing API service at: %s", GlobalConfig.Service.URL)
		go apis.StartService(GlobalConfig.Service.URL, service, arguments.EnableDebug, arguments.EnablePprof)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("Shutting down.")
}

func main() {
	arguments := NewRuntimeArguments()
	rootCmd := arguments.MakeCmd()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute: %v", err)
	}
}
