// Package domain contains the core model for apiurlfix.
//
// The domain is persistence-agnostic: it does not depend on YAML parsing or the
// filesystem. Infra/adapters map into/from these types.
package domain
