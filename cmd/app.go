package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/config"
	"github.com/agentgrowth/leadflow/internal/crm"
	"github.com/agentgrowth/leadflow/internal/db"
	"github.com/agentgrowth/leadflow/internal/notify"
	"github.com/agentgrowth/leadflow/internal/ratelimit"
	"github.com/agentgrowth/leadflow/internal/report"
	"github.com/agentgrowth/leadflow/internal/store"
	"github.com/agentgrowth/leadflow/pkg/notion"
	"github.com/agentgrowth/leadflow/pkg/objstore"
	"github.com/agentgrowth/leadflow/pkg/resend"
	"github.com/agentgrowth/leadflow/pkg/salesforce"
)

// deliveryEnv holds the clients the report job needs.
type deliveryEnv struct {
	Storage    objstore.Client
	Renderer   *report.Renderer
	Dispatcher *notify.Dispatcher
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &db.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initLimiter picks the rate-limit backend. The postgres backend shares the
// store's pool.
func initLimiter(st store.Store) (ratelimit.Limiter, error) {
	policy := ratelimit.Policy{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      config.Seconds(cfg.RateLimit.WindowSecs),
	}
	switch cfg.RateLimit.Backend {
	case "memory":
		return ratelimit.NewMemory(policy), nil
	case "postgres":
		ps, ok := st.(*store.PostgresStore)
		if !ok {
			return nil, eris.New("ratelimit: postgres backend requires the postgres store")
		}
		return ratelimit.NewPostgres(ps.Pool(), policy), nil
	default:
		return nil, eris.Errorf("unsupported ratelimit backend: %s", cfg.RateLimit.Backend)
	}
}

func initStorage() (objstore.Client, error) {
	return objstore.NewClient(objstore.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Region:    cfg.Storage.Region,
	})
}

func initRenderer() (*report.Renderer, error) {
	cat := report.DefaultCatalog()
	if cfg.Report.CatalogPath != "" {
		c, err := report.LoadCatalog(cfg.Report.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = c
	}
	return report.NewRenderer(report.Options{
		BrandName:    cfg.Report.BrandName,
		SupportEmail: cfg.Report.SupportEmail,
		SupportPhone: cfg.Report.SupportPhone,
		BookingURL:   cfg.Report.BookingURL,
	}, cat, cfg.Report.Compress), nil
}

// initSinks builds every configured CRM sink. An empty result is valid; the
// dispatcher then leaves crm_synced false.
func initSinks() ([]crm.Sink, error) {
	var sinks []crm.Sink

	if cfg.CRM.WebhookURL != "" {
		sinks = append(sinks, crm.NewWebhook(cfg.CRM.WebhookURL, cfg.CRM.WebhookSecret, config.Seconds(cfg.CRM.TimeoutSecs)))
	}

	if cfg.Notion.Token != "" && cfg.Notion.LeadDB != "" {
		client := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
		sinks = append(sinks, crm.NewNotion(client, cfg.Notion.LeadDB))
	}

	if cfg.Salesforce.Enabled {
		client, err := salesforce.Dial(salesforce.Credentials{
			LoginURL: cfg.Salesforce.LoginURL,
			Username: cfg.Salesforce.Username,
			ClientID: cfg.Salesforce.ClientID,
			KeyPath:  cfg.Salesforce.KeyPath,
		}, salesforce.WithRateLimit(cfg.Salesforce.RateLimit))
		if err != nil {
			return nil, eris.Wrap(err, "init salesforce")
		}
		sinks = append(sinks, crm.NewSalesforce(client))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	if len(names) == 0 {
		zap.L().Warn("no crm sinks configured, leads will not be synced")
	} else {
		zap.L().Info("crm sinks enabled", zap.Strings("sinks", names))
	}
	return sinks, nil
}

// initDelivery wires storage, email, CRM sinks and the renderer.
func initDelivery() (*deliveryEnv, error) {
	storage, err := initStorage()
	if err != nil {
		return nil, err
	}

	renderer, err := initRenderer()
	if err != nil {
		return nil, err
	}

	sinks, err := initSinks()
	if err != nil {
		return nil, err
	}

	var emailOpts []resend.Option
	if cfg.Email.BaseURL != "" {
		emailOpts = append(emailOpts, resend.WithBaseURL(cfg.Email.BaseURL))
	}
	email := resend.NewClient(cfg.Email.APIKey, emailOpts...)

	dispatcher, err := notify.New(notify.Config{
		ReportsBucket: cfg.Storage.ReportsBucket,
		From:          cfg.Email.From,
		ReplyTo:       cfg.Email.ReplyTo,
		BrandName:     cfg.Report.BrandName,
		SupportEmail:  cfg.Report.SupportEmail,
		BookingURL:    cfg.Report.BookingURL,
	}, storage, email, sinks)
	if err != nil {
		return nil, err
	}

	return &deliveryEnv{
		Storage:    storage,
		Renderer:   renderer,
		Dispatcher: dispatcher,
	}, nil
}
