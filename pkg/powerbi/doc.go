// Package powerbi provides types, interfaces, and helpers for working with the
// Power BI REST API.
//
// # Overview
//
// The powerbi package defines the domain types (e.g., Group, Dashboard,
// Report, Dataset, Gateway) and the interfaces for resource-oriented clients
// (e.g., ReportsClient, DatasetsClient). A concrete implementation is provided
// by the pbiclient package, which wires configuration, credential storage,
// authentication, and transport. Most consumers should import pbiclient to
// construct a client and then interact with the resource client interfaces
// exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/powerbi/pkg/pbiclient"
//	  "github.com/fivetwenty-io/powerbi/pkg/powerbi"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := pbiclient.New(ctx, &powerbi.Config{
//	    ClientID:        "app-id",
//	    ClientSecret:    "secret",
//	    RedirectURI:     "http://localhost/redirect",
//	    Scopes:          []string{"https://analysis.windows.net/powerbi/api/.default"},
//	    CredentialsPath: "/home/me/.powerbi/credentials.json",
//	    Prompter:        pbiclient.NewTerminalPrompter(),
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  groups, err := cli.Groups().List(ctx, powerbi.NewQueryParams().WithTop(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = groups
//	}
//
// # Queries
//
// Use QueryParams to express the OData options ($top, $skip, $filter,
// $expand) accepted by list endpoints.
//
// # Enumerations
//
// Values with a closed set of options (access rights, export formats,
// credential types, ...) are string types with a Validate method. Resource
// clients validate them before any request is sent and return
// ErrInvalidEnumValue for unknown values.
//
// # Errors
//
// Non-2xx responses are returned as *HTTPError, carrying the status code,
// URL, method, the request headers with the bearer token redacted, and the
// parsed response body. Network failures are returned as *TransportError.
// A rejected token refresh is returned as *AuthExchangeError and matches
// ErrPermissionDenied; the stored credentials must be deleted and the user
// must log in again. Helpers such as IsNotFound, IsUnauthorized and
// IsThrottled make it easy to branch on common cases.
//
// # Logging and events
//
// Pass a Logger (NewZerologLogger wraps a zerolog.Logger) to receive request
// and token lifecycle logs. An EventPublisher (NATSEventPublisher publishes to
// NATS) receives one RequestEvent per API call.
package powerbi
