package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kshzz24/scalable-chat-app/internal/app"
	"github.com/kshzz24/scalable-chat-app/internal/config"
	"github.com/kshzz24/scalable-chat-app/internal/profile"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Resolve(profile.ConfigPath())

	fx.New(
		fx.NopLogger,
		app.Module(app.Params{
			ProfileName: profileName,
			APIBaseURL:  cfg.APIBaseURL,
		}),
	).Run()
}
