package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/internal/model"
)

const leadColumns = `id, email, first_name, last_name, phone, location,
	experience_level, current_brokerage, sphere_size, annual_transactions,
	weekly_hours, target_income, preferred_markets, business_objectives,
	start_timeline, communication_preferences, sphere_contact_frequency,
	budget_management, business_stress_level, biggest_challenge,
	status, pdf_generated, pdf_sent, crm_synced, source_ip, user_agent,
	created_at, updated_at`

const resourceColumns = `id, title, slug, file_path, download_count, created_at`

type scannable interface {
	Scan(dest ...any) error
}

// leadArgs returns insert arguments in leadColumns order.
func leadArgs(l *model.Lead) ([]any, error) {
	markets, err := json.Marshal(nonNil(l.PreferredMarkets))
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal preferred markets")
	}
	prefs, err := json.Marshal(nonNil(l.CommunicationPreferences))
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal communication preferences")
	}
	return []any{
		l.ID, l.Email, l.FirstName, l.LastName, l.Phone, l.Location,
		string(l.ExperienceLevel), l.CurrentBrokerage, l.SphereSize, l.AnnualTransactions,
		l.WeeklyHours, l.TargetIncome, markets, l.BusinessObjectives,
		string(l.StartTimeline), prefs, string(l.SphereContactFrequency),
		string(l.BudgetManagement), string(l.BusinessStressLevel), string(l.BiggestChallenge),
		string(l.Status), l.PDFGenerated, l.PDFSent, l.CRMSynced, l.SourceIP, l.UserAgent,
		l.CreatedAt, l.UpdatedAt,
	}, nil
}

func scanLead(row scannable) (*model.Lead, error) {
	var (
		l                                       model.Lead
		experience, timeline, frequency, budget string
		stress, challenge, status               string
		marketsJSON, prefsJSON                  []byte
	)
	err := row.Scan(
		&l.ID, &l.Email, &l.FirstName, &l.LastName, &l.Phone, &l.Location,
		&experience, &l.CurrentBrokerage, &l.SphereSize, &l.AnnualTransactions,
		&l.WeeklyHours, &l.TargetIncome, &marketsJSON, &l.BusinessObjectives,
		&timeline, &prefsJSON, &frequency,
		&budget, &stress, &challenge,
		&status, &l.PDFGenerated, &l.PDFSent, &l.CRMSynced, &l.SourceIP, &l.UserAgent,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan lead")
	}

	l.ExperienceLevel = model.ExperienceLevel(experience)
	l.StartTimeline = model.StartTimeline(timeline)
	l.SphereContactFrequency = model.ContactFrequency(frequency)
	l.BudgetManagement = model.BudgetStyle(budget)
	l.BusinessStressLevel = model.StressLevel(stress)
	l.BiggestChallenge = model.Challenge(challenge)
	l.Status = model.LeadStatus(status)

	if len(marketsJSON) > 0 {
		if err := json.Unmarshal(marketsJSON, &l.PreferredMarkets); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal preferred markets")
		}
	}
	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &l.CommunicationPreferences); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal communication preferences")
		}
	}
	if len(l.PreferredMarkets) == 0 {
		l.PreferredMarkets = nil
	}
	if len(l.CommunicationPreferences) == 0 {
		l.CommunicationPreferences = nil
	}
	return &l, nil
}

func scanResource(row scannable) (*model.Resource, error) {
	var r model.Resource
	err := row.Scan(&r.ID, &r.Title, &r.Slug, &r.FilePath, &r.DownloadCount, &r.CreatedAt)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan resource")
	}
	return &r, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
