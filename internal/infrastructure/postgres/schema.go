package postgres

import "context"

const documentsTable = "documents"

// schemaStatements crea la tabla de documentos y el registro de recibos. Idempotente.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT        NOT NULL,
		id         TEXT        NOT NULL,
		fields     JSONB       NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_created_at
		ON documents (collection, (fields->>'createdAt'))`,
	`CREATE TABLE IF NOT EXISTS issued_receipts (
		id            BIGSERIAL     PRIMARY KEY,
		number        TEXT          NOT NULL,
		provisional   BOOLEAN       NOT NULL DEFAULT false,
		customer_name TEXT          NOT NULL,
		total         NUMERIC(18,2) NOT NULL,
		issued_at     TIMESTAMPTZ   NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issued_receipts_issued_at
		ON issued_receipts (issued_at DESC)`,
}

// Migrate aplica el esquema mínimo requerido por DocumentStore.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return wrapErr("migrate", err)
		}
	}
	return nil
}
