package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/order-cohort-analytics-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$            /$$                            /$$$$$$            /$$                            /$$
         /$$__  $$          | $$                           /$$__  $$          | $$                           | $$
        | $$  \ $$  /$$$$$$ | $$$$$$$   /$$$$$$   /$$$$$$ | $$  \__/  /$$$$$$ | $$$$$$$   /$$$$$$   /$$$$$$  /$$$$$$
        | $$  | $$ /$$__  $$| $$__  $$ /$$__  $$ /$$__  $$| $$       /$$__  $$| $$__  $$ /$$__  $$ /$$__  $$|_  $$_/
        | $$  | $$| $$  \__/| $$  \ $$| $$$$$$$$| $$  \__/| $$      | $$  \ $$| $$  \ $$| $$  \ $$| $$  \__/  | $$
        | $$  | $$| $$      | $$  | $$| $$_____/| $$      | $$    $$| $$  | $$| $$  | $$| $$  | $$| $$        | $$ /$$
        |  $$$$$$/| $$      | $$$$$$$/|  $$$$$$$| $$      |  $$$$$$/|  $$$$$$/| $$  | $$|  $$$$$$/| $$        |  $$$$/
         \______/ |__/      |_______/  \_______/|__/       \______/  \______/ |__/  |__/ \______/ |__/         \___/
        `
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Order Cohort Analytics CLI (v%s)", formattedVersion)))
}
