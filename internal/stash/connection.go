package stash

import (
	"fmt"
	"strings"
)

// DefaultGraphQLURL is the final fallback for the host GraphQL endpoint.
const DefaultGraphQLURL = "http://127.0.0.1:9999/graphql"

// Connection describes how to reach the host GraphQL API.
type Connection struct {
	GraphQLURL  string
	APIKey      string
	CookieName  string
	CookieValue string
}

// ConnectionDefaults supplies operator-configured fallbacks applied when the
// descriptor carries no server_connection block. The config package fills
// these from the defaults file and the STASH_* environment variables.
type ConnectionDefaults struct {
	GraphQLURL string
	BaseURL    string
	APIKey     string
}

// Connection resolves the host endpoint from the descriptor: explicit URL
// fields, then scheme/host/port composition, then the supplied defaults,
// then the local default. A host of 0.0.0.0 is normalized to localhost since
// the plugin always runs on the host machine.
func (p *Payload) Connection(defaults ConnectionDefaults) Connection {
	sc := p.serverConnection()

	conn := Connection{
		GraphQLURL: lookupString(sc, "graphql_endpoint", "graphqlUrl", "url"),
	}
	if conn.GraphQLURL == "" {
		if host := lookupString(sc, "Host", "host"); host != "" {
			scheme := lookupString(sc, "Scheme", "scheme")
			if scheme == "" {
				scheme = "http"
			}
			if host == "0.0.0.0" {
				host = "localhost"
			}
			if port := lookupString(sc, "Port", "port"); port != "" {
				conn.GraphQLURL = fmt.Sprintf("%s://%s:%s/graphql", scheme, host, port)
			} else {
				conn.GraphQLURL = fmt.Sprintf("%s://%s/graphql", scheme, host)
			}
		}
	}
	if conn.GraphQLURL == "" {
		conn.GraphQLURL = strings.TrimSpace(defaults.GraphQLURL)
	}
	if conn.GraphQLURL == "" {
		if base := strings.TrimSpace(defaults.BaseURL); base != "" {
			conn.GraphQLURL = strings.TrimRight(base, "/") + "/graphql"
		}
	}
	if conn.GraphQLURL == "" {
		conn.GraphQLURL = DefaultGraphQLURL
	}

	conn.APIKey = lookupString(sc, "api_key", "apiKey", "ApiKey")
	if conn.APIKey == "" {
		conn.APIKey = strings.TrimSpace(defaults.APIKey)
	}

	if cookie := asMap(firstPresent(sc, "SessionCookie", "session_cookie", "sessionCookie")); len(cookie) > 0 {
		conn.CookieName = lookupString(cookie, "Name", "name")
		conn.CookieValue = lookupString(cookie, "Value", "value")
	}

	return conn
}

func (p *Payload) serverConnection() map[string]any {
	return asMap(firstPresent(p.raw, "server_connection", "ServerConnection", "serverConnection"))
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
