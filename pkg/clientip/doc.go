// Package clientip resolves the originating client address of an HTTP
// request when the service runs behind one or more reverse proxies.
//
// GetIP checks DefaultHeaders in priority order and falls back to the TCP
// peer address:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For (first valid entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Only trust proxy headers when a proxy you control sets them. A Resolver
// built with NewResolver() and no headers ignores them entirely.
//
// Middleware stores the resolved address in the request context, where
// FromContext and LoggerExtractor read it. The rate limiter keys buckets by
// this address.
package clientip
