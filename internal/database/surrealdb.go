package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB is the WebSocket-backed Database implementation. The CampusHub
// repositories speak SurrealQL through it; connection setup and response
// unwrapping live here so they don't have to.
type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB builds an unconnected instance; call Connect before use
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{
		config: cfg,
	}
}

// Connect dials the server, signs in as root, and selects the configured
// namespace and database.
func (s *SurrealDB) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SurrealDB) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping verifies the connection by asking the server for its version
func (s *SurrealDB) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	_, err := s.db.Version(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs a SurrealQL batch and returns one {status, result} wrapper per
// statement. A non-OK status anywhere fails the whole call; partial results
// are never returned.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}

	return output, nil
}

// QueryOne runs a query expected to yield a single record, the shape of a
// lookup by record ID like club:xyz or user:abc. Returns ErrNotFound when
// the result set is empty.
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	// Unwrap {status: "OK", result: [...]} down to the first record
	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, ErrNotFound
				}
				return resultData[0], nil
			}
			// Scalar results (counts and the like) come back unwrapped
			return resp["result"], nil
		}
	}

	return first, nil
}

// Execute runs a statement and discards its results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

// BeginTx starts a staged transaction. The client offers no interactive
// transactions, so statements are collected and sent as a single
// BEGIN/COMMIT script when Commit is called.
func (s *SurrealDB) BeginTx(ctx context.Context) (Transaction, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	return &SurrealTransaction{
		db:      s.db,
		ctx:     ctx,
		queries: make([]stagedQuery, 0),
	}, nil
}

// SurrealTransaction collects statements until Commit ships them as one
// atomic script. Reads inside a staged transaction return nothing; it exists
// for multi-record writes that must land together, like completing a club
// merge or tearing down a club's resources.
type SurrealTransaction struct {
	db        *surrealdb.DB
	ctx       context.Context
	queries   []stagedQuery
	committed bool
}

type stagedQuery struct {
	query string
	vars  map[string]interface{}
}

func (t *SurrealTransaction) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	t.queries = append(t.queries, stagedQuery{query: query, vars: vars})
	return nil, nil
}

func (t *SurrealTransaction) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	t.queries = append(t.queries, stagedQuery{query: query, vars: vars})
	return nil, nil
}

func (t *SurrealTransaction) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	t.queries = append(t.queries, stagedQuery{query: query, vars: vars})
	return nil
}

func (t *SurrealTransaction) Commit() error {
	if t.committed {
		return nil
	}

	script := "BEGIN TRANSACTION;\n"
	for _, q := range t.queries {
		script += q.query + ";\n"
	}
	script += "COMMIT TRANSACTION;"

	// Variables share one namespace across the script; staged statements
	// must not reuse names for different values
	allVars := make(map[string]interface{})
	for _, q := range t.queries {
		for k, v := range q.vars {
			allVars[k] = v
		}
	}

	_, err := surrealdb.Query[interface{}](t.ctx, t.db, script, allVars)
	if err != nil {
		return fmt.Errorf("%w: commit failed: %v", ErrQuery, err)
	}

	t.committed = true
	return nil
}

func (t *SurrealTransaction) Rollback() error {
	// Nothing was sent yet; dropping the staged statements is the rollback
	t.queries = nil
	return nil
}

// UnmarshalResult digs a typed value out of the response wrappers Query
// returns, peeling the batch array, the {status, result} envelope, and the
// per-statement record array in turn.
func UnmarshalResult[T any](result interface{}) (T, error) {
	var zero T

	if results, ok := result.([]interface{}); ok {
		if len(results) == 0 {
			return zero, ErrNotFound
		}
		result = results[0]
	}

	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"]; ok {
				result = resultData
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return zero, ErrNotFound
		}
		result = arr[0]
	}

	if typed, ok := result.(T); ok {
		return typed, nil
	}

	return zero, fmt.Errorf("failed to unmarshal result to type %T", zero)
}
