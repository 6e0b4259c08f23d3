package sqlite

import (
	"database/sql"
	"time"

	"daoview/internal/domain"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// daoColumns lists the columns read by daoRow.scanArgs, in order
const daoColumns = `contract_address, name, network, adapter_type, source, created_at`

// daoRow holds a scanned daos row
type daoRow struct {
	address     string
	name        string
	network     sql.NullString
	adapterType sql.NullString
	source      string
	createdAt   int64
}

func (r *daoRow) scanArgs() []interface{} {
	return []interface{}{&r.address, &r.name, &r.network, &r.adapterType, &r.source, &r.createdAt}
}

func (r *daoRow) toDomain() domain.KnownDao {
	return domain.KnownDao{
		ContractAddress: r.address,
		Name:            r.name,
		Network:         domain.Network(nullToString(r.network)),
		AdapterType:     nullToString(r.adapterType),
		Source:          r.source,
		CreatedAt:       time.Unix(r.createdAt, 0).UTC(),
	}
}

// daoInsertArgs returns values for daoColumns
func daoInsertArgs(dao *domain.KnownDao) []interface{} {
	return []interface{}{
		dao.ContractAddress,
		dao.Name,
		stringToNull(string(dao.Network)),
		stringToNull(dao.AdapterType),
		dao.Source,
		dao.CreatedAt.Unix(),
	}
}
