// Package repository defines persistence of known DAO entries.
//
// Entries are keyed by contract address and only ever replaced as a whole.
// Each entry records its source: the static seed list or an explicit
// registration. Reloading the seed list replaces seed entries but never
// overwrites a registered one.
//
// The sqlite subpackage implements DaoRepository on SQLite and is tested
// against in-memory databases.
package repository
