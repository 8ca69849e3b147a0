package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/saudemt/diskdengue/internal/config"
	"github.com/saudemt/diskdengue/internal/gateway"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "diskdengue",
	Short: "diskdengue - conversational intake bot for dengue complaints",
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the intake gateway (channels + session reaper)",
	RunE:  runGateway,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show diskdengue status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(gatewayCmd, onboardCmd, statusCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sheet.URL == "" {
		return fmt.Errorf("sheet URL not set. Run 'diskdengue onboard' or set DISKDENGUE_SHEET_URL")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	return gw.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(cfgPath, data, 0644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set the sheet endpoint URL\n", cfgPath)
	fmt.Println("  2. Or set DISKDENGUE_SHEET_URL environment variable")
	fmt.Println("  3. Run 'diskdengue gateway' and scan the WhatsApp QR code")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	if cfg.Sheet.URL != "" {
		fmt.Printf("Sheet endpoint: %s\n", cfg.Sheet.URL)
	} else {
		fmt.Println("Sheet endpoint: not set")
	}
	fmt.Printf("Photo mode: %s\n", cfg.Photo.Mode)
	if cfg.Photo.Mode == config.PhotoModeLocal {
		fmt.Printf("Photo dir: %s\n", cfg.Photo.Dir)
	}
	fmt.Printf("Photo step: enabled=%v\n", cfg.Flow.PhotoStep)
	fmt.Printf("Typing delay: %s\n", cfg.Flow.TypingDelay())
	fmt.Printf("Session timeout: %s\n", cfg.Flow.SessionTimeout())
	fmt.Printf("WhatsApp: enabled=%v\n", cfg.Channels.WhatsApp.Enabled)
	fmt.Printf("Telegram: enabled=%v\n", cfg.Channels.Telegram.Enabled)

	return nil
}
