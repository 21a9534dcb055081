// MongoREST - REST Interface for MongoDB Document Stores
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mongorest

package config

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultStoreURI is used when no db section is configured.
const DefaultStoreURI = "mongodb://localhost:27017"

// DefaultAuthDatabase is the database used by auth connections whose URI has no path.
const DefaultAuthDatabase = "auth"

var (
	// ErrInvalidDescriptor is returned for a db value that is neither a URI
	// string nor a {host, port, database} object, or whose URI does not parse.
	ErrInvalidDescriptor = errors.New("invalid store descriptor")

	// ErrInvalidAccessControl is returned for a db_access_control value of an
	// unsupported shape.
	ErrInvalidAccessControl = errors.New("invalid db_access_control")
)

// StoreDescriptor is the canonical form of a connection descriptor.
type StoreDescriptor struct {
	URI      string
	Database string
}

// AccessPolicy maps an allowed database to its allowed collections.
// An empty collection list allows every collection in that database.
// A nil or empty policy allows everything.
type AccessPolicy map[string][]string

// Unrestricted reports whether the policy permits every database.
func (p AccessPolicy) Unrestricted() bool {
	return len(p) == 0
}

// Databases returns the allowed database names, sorted.
func (p AccessPolicy) Databases() []string {
	names := make([]string, 0, len(p))
	for db := range p {
		names = append(names, db)
	}
	sort.Strings(names)
	return names
}

// Resolve converts the raw db and db_access_control values into Store and
// Access, and resolves the auth connection strings.
func (c *Config) Resolve() error {
	store, err := ResolveStoreDescriptor(c.DB)
	if err != nil {
		return err
	}
	c.Store = store

	fixedDB := ""
	if c.EndpointRoot == EndpointRootDatabase {
		fixedDB = store.Database
	}
	access, err := ResolveAccessPolicy(c.DBAccessControl, fixedDB)
	if err != nil {
		return err
	}
	c.Access = access

	if c.Auth.UsersDBConnection != "" {
		users, err := resolveAuthDescriptor(c.Auth.UsersDBConnection)
		if err != nil {
			return fmt.Errorf("auth.users_db_connection: %w", err)
		}
		c.Auth.Users = users

		tokenConn := c.Auth.TokenDBConnection
		if tokenConn == "" {
			tokenConn = c.Auth.UsersDBConnection
		}
		tokens, err := resolveAuthDescriptor(tokenConn)
		if err != nil {
			return fmt.Errorf("auth.token_db_connection: %w", err)
		}
		c.Auth.Tokens = tokens
	}

	return nil
}

// ResolveStoreDescriptor accepts nil, a URI string, or a map with host, port
// and database keys.
func ResolveStoreDescriptor(raw interface{}) (StoreDescriptor, error) {
	switch v := raw.(type) {
	case nil:
		return parseURI(DefaultStoreURI)
	case string:
		if strings.TrimSpace(v) == "" {
			return parseURI(DefaultStoreURI)
		}
		return parseURI(v)
	case map[string]interface{}:
		return resolveHostPort(v)
	default:
		return StoreDescriptor{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDescriptor, raw)
	}
}

func resolveHostPort(m map[string]interface{}) (StoreDescriptor, error) {
	host := "localhost"
	if h, ok := m["host"]; ok && h != nil {
		s, ok := h.(string)
		if !ok || s == "" {
			return StoreDescriptor{}, fmt.Errorf("%w: host must be a non-empty string", ErrInvalidDescriptor)
		}
		host = s
	}

	port := "27017"
	if p, ok := m["port"]; ok && p != nil {
		switch pv := p.(type) {
		case int:
			port = strconv.Itoa(pv)
		case int64:
			port = strconv.FormatInt(pv, 10)
		case float64:
			port = strconv.Itoa(int(pv))
		case string:
			port = pv
		default:
			return StoreDescriptor{}, fmt.Errorf("%w: port has type %T", ErrInvalidDescriptor, p)
		}
	}

	uri := "mongodb://" + net.JoinHostPort(host, port)
	if d, ok := m["database"].(string); ok && d != "" {
		uri += "/" + d
	}
	return parseURI(uri)
}

func parseURI(uri string) (StoreDescriptor, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return StoreDescriptor{}, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return StoreDescriptor{URI: uri, Database: cs.Database}, nil
}

func resolveAuthDescriptor(uri string) (StoreDescriptor, error) {
	d, err := parseURI(uri)
	if err != nil {
		return StoreDescriptor{}, err
	}
	if d.Database == "" {
		d.Database = DefaultAuthDatabase
	}
	return d, nil
}

// ResolveAccessPolicy accepts nil, a map of database to collection list, or
// a list. With fixedDB set (database endpoint mode) a list names the allowed
// collections of fixedDB; otherwise it names allowed databases.
// A comma-separated string is read as a list.
func ResolveAccessPolicy(raw interface{}, fixedDB string) (AccessPolicy, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return listPolicy(splitList(v), fixedDB), nil
	case []string:
		return listPolicy(v, fixedDB), nil
	case []interface{}:
		names, err := stringList(v)
		if err != nil {
			return nil, err
		}
		return listPolicy(names, fixedDB), nil
	case map[string]interface{}:
		if len(v) == 0 {
			return nil, nil
		}
		policy := make(AccessPolicy, len(v))
		for db, cols := range v {
			names, err := collectionList(cols)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", db, err)
			}
			policy[db] = names
		}
		return policy, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidAccessControl, raw)
	}
}

func listPolicy(names []string, fixedDB string) AccessPolicy {
	if len(names) == 0 {
		return nil
	}
	if fixedDB != "" {
		return AccessPolicy{fixedDB: names}
	}
	policy := make(AccessPolicy, len(names))
	for _, db := range names {
		policy[db] = []string{}
	}
	return policy
}

func collectionList(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitList(v), nil
	case []string:
		return v, nil
	case []interface{}:
		return stringList(v)
	default:
		return nil, fmt.Errorf("%w: collections have type %T", ErrInvalidAccessControl, raw)
	}
}

func stringList(items []interface{}) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %v is not a string", ErrInvalidAccessControl, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
