package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/civicstack/maturity-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS surveys (
	id         TEXT PRIMARY KEY,
	schema     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS organizations (
	id      TEXT PRIMARY KEY,
	profile JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	id              TEXT PRIMARY KEY,
	survey_id       TEXT NOT NULL,
	organization_id TEXT NOT NULL,
	stakeholder_id  TEXT NOT NULL,
	completed       BOOLEAN NOT NULL DEFAULT false,
	payload         JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	survey_id       TEXT NOT NULL,
	organization_id TEXT NOT NULL,
	payload         JSONB NOT NULL,
	computed_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (survey_id, organization_id)
);

CREATE INDEX IF NOT EXISTS idx_responses_survey ON responses(survey_id);
CREATE INDEX IF NOT EXISTS idx_responses_survey_org ON responses(survey_id, organization_id);
CREATE INDEX IF NOT EXISTS idx_results_survey ON results(survey_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveSurvey(ctx context.Context, survey *model.Survey) error {
	data, err := json.Marshal(survey)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal survey")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO surveys (id, schema, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET schema = EXCLUDED.schema, updated_at = now()`,
		survey.ID, data,
	)
	return eris.Wrapf(err, "postgres: save survey %s", survey.ID)
}

func (s *PostgresStore) GetSurvey(ctx context.Context, surveyID string) (*model.Survey, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT schema FROM surveys WHERE id = $1`, surveyID,
	).Scan(&data)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("survey not found: %s", surveyID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get survey %s", surveyID)
	}
	var survey model.Survey
	if err := json.Unmarshal(data, &survey); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal survey")
	}
	return &survey, nil
}

func (s *PostgresStore) SaveOrganization(ctx context.Context, org *model.Organization) error {
	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	data, err := json.Marshal(org)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal organization")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO organizations (id, profile) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET profile = EXCLUDED.profile`,
		org.ID, data,
	)
	return eris.Wrapf(err, "postgres: save organization %s", org.ID)
}

func (s *PostgresStore) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	rows, err := s.pool.Query(ctx, `SELECT profile FROM organizations ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list organizations")
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan organization")
		}
		var org model.Organization
		if err := json.Unmarshal(data, &org); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal organization")
		}
		orgs = append(orgs, org)
	}
	return orgs, eris.Wrap(rows.Err(), "postgres: list organizations iterate")
}

func (s *PostgresStore) SaveResponse(ctx context.Context, resp *model.Response) error {
	if resp.ID == "" {
		resp.ID = uuid.New().String()
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal response")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO responses (id, survey_id, organization_id, stakeholder_id, completed, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET completed = EXCLUDED.completed, payload = EXCLUDED.payload`,
		resp.ID, resp.SurveyID, resp.OrganizationID, resp.StakeholderID, resp.Completed(), data,
	)
	return eris.Wrapf(err, "postgres: save response %s", resp.ID)
}

func (s *PostgresStore) ListResponses(ctx context.Context, surveyID string, filter ResponseFilter) ([]model.Response, error) {
	query := `SELECT payload FROM responses WHERE survey_id = $1`
	args := []any{surveyID}
	argNum := 2

	if filter.OrganizationID != "" {
		query += ` AND organization_id = $2`
		args = append(args, filter.OrganizationID)
		argNum++
	}
	if filter.CompletedOnly {
		query += ` AND completed = true`
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argNum)
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list responses")
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan response")
		}
		var resp model.Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal response")
		}
		responses = append(responses, resp)
	}
	return responses, eris.Wrap(rows.Err(), "postgres: list responses iterate")
}

func (s *PostgresStore) SaveResult(ctx context.Context, result *model.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO results (survey_id, organization_id, payload, computed_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (survey_id, organization_id) DO UPDATE
		 SET payload = EXCLUDED.payload, computed_at = now()`,
		result.SurveyID, result.OrganizationID, data,
	)
	return eris.Wrapf(err, "postgres: save result %s/%s", result.SurveyID, result.OrganizationID)
}

func (s *PostgresStore) GetResult(ctx context.Context, surveyID, orgID string) (*model.Result, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM results WHERE survey_id = $1 AND organization_id = $2`,
		surveyID, orgID,
	).Scan(&data)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("result not found: %s/%s", surveyID, orgID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get result %s/%s", surveyID, orgID)
	}
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &result, nil
}

func (s *PostgresStore) ListResults(ctx context.Context, surveyID string) ([]model.Result, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM results WHERE survey_id = $1 ORDER BY organization_id`,
		surveyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list results")
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		var result model.Result
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
		results = append(results, result)
	}
	return results, eris.Wrap(rows.Err(), "postgres: list results iterate")
}
