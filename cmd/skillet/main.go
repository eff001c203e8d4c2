package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skilletlabs/skillet/pkg/llm"
	"github.com/skilletlabs/skillet/pkg/logger"
	"github.com/skilletlabs/skillet/pkg/presenter"
	"github.com/skilletlabs/skillet/pkg/skills"
)

func init() {
	viper.SetEnvPrefix("SKILLET")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillet")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillet",
	Short: "Manage a local repository of agent skills",
	Long: `Skillet maintains a directory of SKILL.md documents describing reusable
agent capabilities, with an index for fast lookup, cached progressive
loading, text search, and a validated create/update path.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// skillsRoot resolves the configured skills directory, defaulting to
// ~/.skillet/skills.
func skillsRoot() string {
	if dir := viper.GetString("skills_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".skillet", "skills")
	}
	return filepath.Join(home, ".skillet", "skills")
}

// newLoader wires the read stack for the configured skills root.
func newLoader() *skills.Loader {
	opts := []skills.LoaderOption{}
	if maxAge := viper.GetDuration("index_max_age"); maxAge > 0 {
		opts = append(opts, skills.WithIndexMaxAge(maxAge))
	}
	if ttl := viper.GetDuration("cache_ttl"); ttl > 0 {
		opts = append(opts, skills.WithCacheTTL(ttl))
	}
	return skills.NewLoader(skills.NewIndexer(skillsRoot()), opts...)
}

// providerFromConfig builds the configured LLM capability, or nil when
// no provider is configured. Provider-backed features degrade rather
// than fail when this returns nil.
func providerFromConfig() llm.Capability {
	name := viper.GetString("provider")
	if name == "" {
		return nil
	}
	capability, err := llm.NewCapability(name, llm.Options{
		Model:     viper.GetString("model"),
		APIKey:    viper.GetString("api_key"),
		MaxTokens: viper.GetInt("max_tokens"),
	})
	if err != nil {
		presenter.Warning(fmt.Sprintf("ignoring provider config: %v", err))
		return nil
	}
	return capability
}

func main() {
	// Accept underscore spellings so flags match their config keys.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().String("skills-dir", "", "Skills directory (default ~/.skillet/skills)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-error output")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider for semantic features (anthropic or openai)")
	rootCmd.PersistentFlags().String("model", "", "LLM model override")
	rootCmd.PersistentFlags().Duration("index-max-age", 5*time.Minute, "Index staleness threshold before reads rescan")
	rootCmd.PersistentFlags().Duration("cache-ttl", 5*time.Minute, "TTL for the skill caches")

	viper.BindPFlag("skills_dir", rootCmd.PersistentFlags().Lookup("skills-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("index_max_age", rootCmd.PersistentFlags().Lookup("index-max-age"))
	viper.BindPFlag("cache_ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
