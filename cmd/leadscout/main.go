// Command leadscout is an interactive chat front end for the lead
// research assistant. It wires the configured providers into the
// people-search agent and drives one conversation per session.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/kataras/golog"
	openaisdk "github.com/sashabaranov/go-openai"
	llmopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/smallnest/leadscout/agent"
	"github.com/smallnest/leadscout/config"
	"github.com/smallnest/leadscout/conversation"
	pgstore "github.com/smallnest/leadscout/conversation/postgres"
	redisstore "github.com/smallnest/leadscout/conversation/redis"
	sqlitestore "github.com/smallnest/leadscout/conversation/sqlite"
	"github.com/smallnest/leadscout/log"
	"github.com/smallnest/leadscout/router"
	"github.com/smallnest/leadscout/schema"
	"github.com/smallnest/leadscout/tool"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	detailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	identity := flag.String("user", "", "identity key for the requesting user's profile")
	flag.Parse()

	if err := run(*configPath, *identity); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func run(configPath, identity string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Logger.Level)
	log.SetDefaultLogger(logger)

	orch, store, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return chat(orch, identity)
}

func newLogger(level string) log.Logger {
	glogger := golog.New()
	logger := log.NewGologLogger(glogger)
	switch level {
	case "debug":
		logger.SetLevel(log.LogLevelDebug)
	case "warn":
		logger.SetLevel(log.LogLevelWarn)
	case "error":
		logger.SetLevel(log.LogLevelError)
	default:
		logger.SetLevel(log.LogLevelInfo)
	}
	return logger
}

func buildOrchestrator(cfg *config.Config, logger log.Logger) (*conversation.Orchestrator, conversation.Store, error) {
	researchAgent, err := buildAgent(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	model, err := llmopenai.New(
		llmopenai.WithToken(cfg.OpenAI.APIKey),
		llmopenai.WithModel(cfg.OpenAI.Model),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create router model: %w", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	orch, err := conversation.New(conversation.Config{
		Agent:           researchAgent,
		Classifier:      router.NewLLMClassifier(model),
		Store:           store,
		Logger:          logger,
		StaleAfterTurns: cfg.Conversation.StaleAfterTurns,
		RecentWindow:    cfg.Conversation.RecentWindow,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return orch, store, nil
}

func buildAgent(cfg *config.Config, logger log.Logger) (*agent.Agent, error) {
	profile, err := tool.NewProfileClient(cfg.Profile.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("create profile client: %w", err)
	}

	searcher, err := tool.NewBraveSearch(cfg.Brave.APIKey,
		tool.WithBraveCount(cfg.Brave.Count),
		tool.WithBraveCountry(cfg.Brave.Country),
		tool.WithBraveLang(cfg.Brave.Lang),
		tool.WithBraveRateLimit(cfg.Brave.RequestsPerSec),
	)
	if err != nil {
		return nil, fmt.Errorf("create web search: %w", err)
	}

	emails, err := tool.NewHunterEmailFinder(cfg.Hunter.APIKey)
	if err != nil {
		return nil, fmt.Errorf("create email finder: %w", err)
	}

	plannerCfg := openaisdk.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		plannerCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	planner := tool.NewOpenAIQueryPlanner(
		openaisdk.NewClientWithConfig(plannerCfg),
		tool.WithPlannerModel(cfg.OpenAI.Model),
	)

	model, err := llmopenai.New(
		llmopenai.WithToken(cfg.OpenAI.APIKey),
		llmopenai.WithModel(cfg.OpenAI.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create agent model: %w", err)
	}

	return agent.New(agent.Config{
		UserInfo:       profile,
		Planner:        planner,
		Searcher:       searcher,
		Pages:          tool.NewHTTPPageFetcher(),
		Emails:         emails,
		Analyzer:       agent.NewLLMAnalyzer(model),
		Extractor:      agent.NewLLMExtractor(model),
		Logger:         logger,
		ToolTimeout:    cfg.ToolTimeout(),
		MaxQueries:     cfg.Agent.MaxQueries,
		MaxPageLookups: cfg.Agent.MaxPageLookups,
	})
}

func buildStore(cfg *config.Config) (conversation.Store, error) {
	switch cfg.Conversation.Store {
	case "memory":
		return conversation.NewMemoryStore(), nil
	case "redis":
		return redisstore.NewStore(redisstore.Options{
			Addr:     cfg.Conversation.Redis.Address,
			Password: cfg.Conversation.Redis.Password,
			DB:       cfg.Conversation.Redis.DB,
			TTL:      cfg.RedisTTL(),
		}), nil
	case "sqlite":
		return sqlitestore.NewStore(sqlitestore.Options{Path: cfg.Conversation.SQLite.Path})
	case "postgres":
		store, err := pgstore.NewStore(context.Background(), pgstore.Options{
			ConnString: cfg.Conversation.Postgres.ConnString,
		})
		if err != nil {
			return nil, err
		}
		if err := store.InitSchema(context.Background()); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unrecognized conversation store %q", cfg.Conversation.Store)
	}
}

func chat(orch *conversation.Orchestrator, identity string) error {
	conversationID := uuid.NewString()
	fmt.Println(titleStyle.Render("leadscout"))
	fmt.Println(mutedStyle.Render("Describe who you are looking for. Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		resp, err := orch.HandleTurn(context.Background(), conversation.TurnInput{
			ConversationID: conversationID,
			Message:        message,
			UserIdentity:   identity,
		})
		if err != nil {
			if errors.Is(err, conversation.ErrSuperseded) {
				continue
			}
			fmt.Println(errorStyle.Render("error: " + err.Error()))
			continue
		}

		render(resp)
	}
}

func render(resp schema.SearchResponse) {
	fmt.Println(assistantStyle.Render(resp.Message))

	for i, p := range resp.People {
		line := fmt.Sprintf("  %d. %s, %s at %s", i+1, p.Name, p.Role, p.Company)
		if p.LinkedInURL != "" {
			line += "  " + mutedStyle.Render(p.LinkedInURL)
		} else if p.WebURL != "" {
			line += "  " + mutedStyle.Render(p.WebURL)
		}
		fmt.Println(detailStyle.Render(line))
	}
	for i, e := range resp.Emails {
		line := fmt.Sprintf("  %d. %s: ", i+1, e.Name)
		if e.EmailSource == schema.EmailNone {
			line += mutedStyle.Render("no address found")
		} else {
			line += fmt.Sprintf("%s (%s)", e.Email, e.EmailSource)
		}
		fmt.Println(detailStyle.Render(line))
	}
	for i, opt := range resp.CompanyOptions {
		line := fmt.Sprintf("  %d. %s", i+1, opt.Name)
		if opt.Domain != "" {
			line += " (" + opt.Domain + ")"
		}
		if opt.Description != "" {
			line += "  " + mutedStyle.Render(opt.Description)
		}
		fmt.Println(detailStyle.Render(line))
	}
}
