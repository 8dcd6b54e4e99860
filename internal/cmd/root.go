package cmd

import (
	"strings"

	"github.com/rivalscan/rivalscan/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "rivalscan",
	Short: "Competitor intelligence reports for startup ideas",
	Long: `Rivalscan turns a one-line startup description into a competitor
intelligence report: it researches the market, compares competitor
features, suggests differentiation strategies, and proposes a
go-to-market plan, writing the result as a markdown report.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/rivalscan/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/rivalscan")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("RIVALSCAN")
	// Replace dots with underscores for nested keys in env vars
	// e.g., RIVALSCAN_MODEL_MAX_TOKENS for model.max_tokens
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The provider keys keep their conventional names alongside the
	// RIVALSCAN_* forms.
	_ = viper.BindEnv("search.api_key", "RIVALSCAN_SEARCH_API_KEY", "GOOGLE_API_KEY")
	_ = viper.BindEnv("search.engine_id", "RIVALSCAN_SEARCH_ENGINE_ID", "GOOGLE_CSE_ID")
	_ = viper.BindEnv("model.api_key", "RIVALSCAN_MODEL_API_KEY", "GROQ_API_KEY")

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
