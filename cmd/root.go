package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/kayz/kbmcp/internal/config"
	"github.com/kayz/kbmcp/internal/knowledge"
	"github.com/kayz/kbmcp/internal/logger"
	"github.com/kayz/kbmcp/internal/security"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	baseURL    string
	userAgent  string
	timeout    time.Duration
	transport  string
	port       int

	// cfg is the effective configuration, fixed once PersistentPreRunE ran.
	cfg     *config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "kbmcp",
	Short: "MCP server for the enterprise knowledge API",
	Long: `kbmcp exposes the enterprise knowledge API to MCP hosts as three tools:
search_documents, get_document_content and ask_knowledge_base.

Modes:
  kbmcp                  Run the MCP server (same as "kbmcp serve")
  kbmcp search <query>   Run one search and print the result
  kbmcp get <doc-id>     Print one document
  kbmcp ask <question>   Ask the knowledge assistant`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE:              runServe,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: .kbmcp.yaml next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "",
		"Knowledge API base URL")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "",
		"User-Agent sent to the knowledge API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0,
		"Knowledge API request timeout (default 30s)")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "",
		"MCP transport: stdio, sse")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0,
		"Listen port for the sse transport")
}

// loadConfig resolves the configuration.
// Priority: command line flag > environment variable > config file > defaults
func loadConfig(cmd *cobra.Command, args []string) error {
	var (
		c    *config.Config
		err  error
		path = configPath
	)
	if path == "" {
		path = config.ConfigPath()
		c, err = config.Load()
	} else {
		c, err = config.LoadFromPath(path)
	}
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.KnowledgeAPI.BaseURL = baseURL
	}
	if flags.Changed("user-agent") {
		c.KnowledgeAPI.UserAgent = userAgent
	}
	if flags.Changed("timeout") {
		c.KnowledgeAPI.Timeout = timeout
	}
	if flags.Changed("transport") {
		c.Transport = transport
	}
	if flags.Changed("port") {
		c.Port = port
	}
	if flags.Changed("log") {
		c.Logging.Level = logLevel
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := security.ValidateBaseURL(c.KnowledgeAPI.BaseURL, c.Security.BlockPrivateHosts); err != nil {
		return fmt.Errorf("invalid knowledge_api.base_url: %w", err)
	}
	if err := logger.Init(c.Logging); err != nil {
		return err
	}

	cfg = c
	cfgPath = path
	logger.Debug("Config loaded from %s (transport=%s, base_url=%s)", path, c.Transport, c.KnowledgeAPI.BaseURL)
	return nil
}

func newKnowledgeClient() *knowledge.Client {
	return knowledge.New(cfg.KnowledgeAPI)
}

func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
