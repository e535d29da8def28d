package main

import "github.com/ordshop/trainer-minter/export"

type Config struct {
	Service struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"service"`
	Wallets struct {
		Unisat struct {
			URL string `json:"url"`
		} `json:"unisat"`
		Xverse struct {
			URL string `json:"url"`
		} `json:"xverse"`
	} `json:"wallets"`
	Backend struct {
		APIURL string `json:"apiURL"`
		// AdminPaymentAddress receives the item-price leg of every mint.
		AdminPaymentAddress string `json:"adminPaymentAddress"`
	} `json:"backend"`
	Fees struct {
		URL string `json:"url"`
	} `json:"fees"`
	Store struct {
		Method string `json:"method"`
		Path   string `json:"path"`
		DSN    string `json:"dsn"`
	} `json:"store"`
	Report struct {
		Method string          `json:"method"`
		S3     export.S3Config `json:"s3"`
	} `json:"report"`
	MintLog struct {
		URL string `json:"url"`
	} `json:"mintLog"`
	AdminAddresses []string `json:"adminAddresses"`
}

// Version Control
var Version string

var GlobalConfig Config
