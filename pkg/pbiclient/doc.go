// Package pbiclient is the entry point for building a Power BI REST API
// client that implements the powerbi.Client interface.
//
// New validates the configuration, fills in defaults, prepares the credential
// file and logs in before returning. Login reuses a stored access token while
// it is valid, refreshes it silently while the refresh token is valid, and
// otherwise runs the OAuth2 authorization code flow through the configured
// Prompter.
//
// Quick start
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
//
//	  cli, err := pbiclient.New(ctx, &powerbi.Config{
//	    ClientID:        "00000000-0000-0000-0000-000000000000",
//	    ClientSecret:    "secret",
//	    RedirectURI:     "http://localhost:8400/callback",
//	    CredentialsPath: "/home/me/.powerbi/credentials.json",
//	    Prompter:        pbiclient.NewTerminalPrompter(),
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  groups, err := cli.Groups().List(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  for _, g := range groups.Value {
//	    log.Println(g.ID, g.Name)
//	  }
//	}
//
// A token obtained elsewhere can be used directly with NewWithToken; such a
// client never refreshes it. NewTokenCredential logs in the same way and
// returns an azcore.TokenCredential for Azure SDK clients.
//
// Errors
//
// A rejected refresh is returned as *powerbi.AuthExchangeError and matches
// powerbi.ErrPermissionDenied. It is not retried: delete the credential file
// and log in again. API failures are *powerbi.HTTPError; use
// powerbi.IsNotFound, powerbi.IsThrottled and friends to classify them.
package pbiclient
