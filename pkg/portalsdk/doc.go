// Package portalsdk holds the wire types of the findit portal JSON API and a
// small Go client for it.
//
// The presentation layer (page rendering, uploads, admin screens) lives
// outside this repository and talks to the portal through these types.
//
//	c := portalsdk.NewClient("http://localhost:8080")
//	login, err := c.Login(ctx, "jdoe", "correct horse battery staple")
//	if err != nil {
//		var apiErr *portalsdk.APIError
//		if errors.As(err, &apiErr) && apiErr.Code == portalsdk.ErrorCodeAccountLocked {
//			// show the lockout message
//		}
//	}
//	me, err := c.WithToken(login.AccessToken).Me(ctx)
package portalsdk
