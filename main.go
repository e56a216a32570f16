// The lottery deployer.
//
// Deploys the compiled contract to the selected network and prints its address.
// By default the bundled lottery is deployed to the in-process simulated chain.
//
// Usage:
//
//	deployer [--network=<id>] [--secure] [--debug] [path/to/file.env...]
//
// The networks are listed in the LOTTERY_NETWORKS_PATH file:
//
//	networks:
//	  - id: sepolia
//	    type: evm
//	    providers:
//	      - url: https://sepolia.infura.io/v3/<key>
//
// The remote networks require the LOTTERY_MNEMONIC environment variable.
// With --secure the mnemonic is read from the hashicorp vault.
package main

import (
	"context"
	"fmt"

	"github.com/blocklords/lottery/config"
	"github.com/blocklords/lottery/config/arg"
	"github.com/blocklords/lottery/deployer"
	"github.com/blocklords/lottery/log"
)

func main() {
	logger, err := log.New("main", log.WITH_TIMESTAMP)
	if err != nil {
		log.Fatal("log.New(`main`)", "error", err)
	}
	if arg.Exist(arg.Debug) {
		logger.SetDebug()
	}

	logger.Info("Load app configuration")
	app_config, err := config.New(logger)
	if err != nil {
		logger.Fatal("config.New", "error", err)
	}
	if !app_config.Secure {
		logger.Warn("App is running in an unsafe environment")
	}

	address, err := deployer.Run(context.Background(), app_config, logger)
	if err != nil {
		logger.Fatal("deployer.Run", "error", err)
	}

	fmt.Println(address.Hex())
}
