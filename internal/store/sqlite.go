package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/civicstack/maturity-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS surveys (
	id         TEXT PRIMARY KEY,
	schema     TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS organizations (
	id      TEXT PRIMARY KEY,
	profile TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	id              TEXT PRIMARY KEY,
	survey_id       TEXT NOT NULL,
	organization_id TEXT NOT NULL,
	stakeholder_id  TEXT NOT NULL,
	completed       INTEGER NOT NULL DEFAULT 0,
	payload         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	survey_id       TEXT NOT NULL,
	organization_id TEXT NOT NULL,
	payload         TEXT NOT NULL,
	computed_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (survey_id, organization_id)
);

CREATE INDEX IF NOT EXISTS idx_responses_survey ON responses(survey_id);
CREATE INDEX IF NOT EXISTS idx_responses_survey_org ON responses(survey_id, organization_id);
CREATE INDEX IF NOT EXISTS idx_results_survey ON results(survey_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSurvey(ctx context.Context, survey *model.Survey) error {
	data, err := json.Marshal(survey)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal survey")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO surveys (id, schema, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET schema = excluded.schema, updated_at = datetime('now')`,
		survey.ID, string(data),
	)
	return eris.Wrapf(err, "sqlite: save survey %s", survey.ID)
}

func (s *SQLiteStore) GetSurvey(ctx context.Context, surveyID string) (*model.Survey, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT schema FROM surveys WHERE id = ?`, surveyID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("survey not found: %s", surveyID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get survey %s", surveyID)
	}
	var survey model.Survey
	if err := json.Unmarshal([]byte(data), &survey); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal survey")
	}
	return &survey, nil
}

func (s *SQLiteStore) SaveOrganization(ctx context.Context, org *model.Organization) error {
	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	data, err := json.Marshal(org)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal organization")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO organizations (id, profile) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET profile = excluded.profile`,
		org.ID, string(data),
	)
	return eris.Wrapf(err, "sqlite: save organization %s", org.ID)
}

func (s *SQLiteStore) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT profile FROM organizations ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list organizations")
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan organization")
		}
		var org model.Organization
		if err := json.Unmarshal([]byte(data), &org); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal organization")
		}
		orgs = append(orgs, org)
	}
	return orgs, eris.Wrap(rows.Err(), "sqlite: list organizations iterate")
}

func (s *SQLiteStore) SaveResponse(ctx context.Context, resp *model.Response) error {
	if resp.ID == "" {
		resp.ID = uuid.New().String()
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal response")
	}
	completed := 0
	if resp.Completed() {
		completed = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO responses (id, survey_id, organization_id, stakeholder_id, completed, payload)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET completed = excluded.completed, payload = excluded.payload`,
		resp.ID, resp.SurveyID, resp.OrganizationID, resp.StakeholderID, completed, string(data),
	)
	return eris.Wrapf(err, "sqlite: save response %s", resp.ID)
}

func (s *SQLiteStore) ListResponses(ctx context.Context, surveyID string, filter ResponseFilter) ([]model.Response, error) {
	query := `SELECT payload FROM responses WHERE survey_id = ?`
	args := []any{surveyID}

	if filter.OrganizationID != "" {
		query += ` AND organization_id = ?`
		args = append(args, filter.OrganizationID)
	}
	if filter.CompletedOnly {
		query += ` AND completed = 1`
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list responses")
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan response")
		}
		var resp model.Response
		if err := json.Unmarshal([]byte(data), &resp); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal response")
		}
		responses = append(responses, resp)
	}
	return responses, eris.Wrap(rows.Err(), "sqlite: list responses iterate")
}

func (s *SQLiteStore) SaveResult(ctx context.Context, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (survey_id, organization_id, payload, computed_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(survey_id, organization_id) DO UPDATE
		 SET payload = excluded.payload, computed_at = datetime('now')`,
		result.SurveyID, result.OrganizationID, string(data),
	)
	return eris.Wrapf(err, "sqlite: save result %s/%s", result.SurveyID, result.OrganizationID)
}

func (s *SQLiteStore) GetResult(ctx context.Context, surveyID, orgID string) (*model.Result, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM results WHERE survey_id = ? AND organization_id = ?`,
		surveyID, orgID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("result not found: %s/%s", surveyID, orgID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get result %s/%s", surveyID, orgID)
	}
	var result model.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &result, nil
}

func (s *SQLiteStore) ListResults(ctx context.Context, surveyID string) ([]model.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM results WHERE survey_id = ? ORDER BY organization_id`,
		surveyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list results")
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		var result model.Result
		if err := json.Unmarshal([]byte(data), &result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
		results = append(results, result)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: list results iterate")
}
