package transport

import (
	"context"
	"crypto/tls"
	"github.com/rs/zerolog"
	"net/http/httptrace"
	"time"
)

// WithTrace attaches connection-level debug logging to ctx
func WithTrace(ctx context.Context, logger zerolog.Logger) context.Context {
	start := time.Now()
	since := func() time.Duration {
		return time.Since(start)
	}

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			logger.Debug().Str("host", info.Host).Dur("elapsed", since()).Msg("dns start")
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			logger.Debug().Err(info.Err).Int("addrs", len(info.Addrs)).Dur("elapsed", since()).Msg("dns done")
		},
		ConnectStart: func(network, addr string) {
			logger.Debug().Str("network", network).Str("addr", addr).Dur("elapsed", since()).Msg("connect start")
		},
		ConnectDone: func(network, addr string, err error) {
			logger.Debug().Str("network", network).Str("addr", addr).Err(err).Dur("elapsed", since()).Msg("connect done")
		},
		GotConn: func(info httptrace.GotConnInfo) {
			logger.Debug().Bool("reused", info.Reused).Dur("elapsed", since()).Msg("got conn")
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			logger.Debug().Err(err).Str("server_name", state.ServerName).Uint16("version", state.Version).Dur("elapsed", since()).Msg("tls handshake done")
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			logger.Debug().Err(info.Err).Dur("elapsed", since()).Msg("wrote request")
		},
		GotFirstResponseByte: func() {
			logger.Debug().Dur("elapsed", since()).Msg("first response byte")
		},
	}

	return httptrace.WithClientTrace(ctx, trace)
}
