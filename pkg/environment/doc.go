// Package environment names the deployment stage (development, staging,
// production) and carries it through request contexts and logs.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
//
// The mail service uses it to pick the log format and to refuse the
// disk-writing dev transport outside development.
package environment
