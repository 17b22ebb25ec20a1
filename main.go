package main

import "github.com/EcoBazaarX-Batch-4/ecobazaarx-storefront/app/cmd"

func main() {
	cmd.RunCli()
}
