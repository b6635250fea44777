package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/sms-guard/internal/adapters/filter"
	"github.com/mikey/sms-guard/internal/config"
	"github.com/mikey/sms-guard/internal/core"
	"github.com/mikey/sms-guard/internal/factory"
	"github.com/mikey/sms-guard/internal/logging"
	"go.uber.org/zap"
)

var (
	// Classifier provider flags
	provider    = flag.String("provider", "openai", "Classifier provider (bedrock, gemini, openai)")
	maxTokens   = flag.Int("max-tokens", 256, "Maximum tokens for the model response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for model generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for model generation")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Filter flags
	spamThreshold = flag.Float64("threshold", 0.80, "Confidence threshold for blocking spam")
	whitelistPath = flag.String("whitelist", "configs/whitelist.json", "Path to the whitelist JSON file")
	blocklistPath = flag.String("blocklist", "", "Path to a blocklist file (built-in list if empty)")

	// Input flags
	message    = flag.String("message", "", "Message text (use stdin if not specified)")
	senderID   = flag.String("sender", "", "Optional sender identifier")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Initialize classifier
	classifierFactory := factory.NewClassifierFactory(cfg, logger)
	classifier, err := classifierFactory.CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	// Load rule sets. Both are mandatory.
	rulesFactory := factory.NewRulesFactory(cfg, logger)
	whitelist, err := rulesFactory.CreateWhitelist()
	if err != nil {
		logger.Fatal("Failed to load whitelist", zap.Error(err))
	}
	blocklist, err := rulesFactory.CreateBlocklist()
	if err != nil {
		logger.Fatal("Failed to load blocklist", zap.Error(err))
	}

	// One-shot runs skip the cache
	service := core.NewFilterService(
		classifier,
		nil,
		whitelist,
		blocklist,
		logger,
		false,
		0,
		cfg.GetFloat64("spam.threshold"),
	)

	// Read message from flag or stdin
	text := *message
	if text == "" {
		logger.Info("Reading message from stdin")
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read message from stdin", zap.Error(err))
		}
		text = string(data)
	}

	cliFilter, err := filter.NewCliFilter(service, logger, *verbose)
	if err != nil {
		logger.Fatal("Failed to create CLI filter", zap.Error(err))
	}

	verdict, err := cliFilter.Check(context.Background(), &core.Message{Text: text, SenderID: *senderID})
	if err != nil {
		logger.Fatal("Failed to check message", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier client", zap.Error(err))
		}
	}

	if verdict.Outcome == core.OutcomeBlocked {
		os.Exit(2)
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set classifier provider
	v.Set("classifier.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
	}

	// Set filter configuration
	v.Set("spam.threshold", *spamThreshold)
	v.Set("spam.whitelist_path", strings.TrimSpace(*whitelistPath))
	v.Set("spam.blocklist_path", strings.TrimSpace(*blocklistPath))

	return config.NewFromViper(v)
}
