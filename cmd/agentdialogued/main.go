package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edgarnunogubinvest/agents-aea/config"
	"github.com/edgarnunogubinvest/agents-aea/connections/loopback"
	wsconn "github.com/edgarnunogubinvest/agents-aea/connections/ws"
	"github.com/edgarnunogubinvest/agents-aea/dialogue"
	"github.com/edgarnunogubinvest/agents-aea/internal/address"
	"github.com/edgarnunogubinvest/agents-aea/protocols/fipa"
)

func main() {
	cfg := config.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05.000",
	}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if cfg.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
	dialogue.SetLogger(log.Logger.With().Str("caller", "dialogue").Logger())

	selfAddr, err := address.New(cfg.Role)
	if err != nil {
		log.Fatal().Err(err).Msg("generating agent address")
	}

	dialogues := fipa.NewDialogues(selfAddr)
	collector := dialogue.NewMetricsCollector(dialogues, "agentdialogued", "fipa")
	prometheus.MustRegister(collector)
	go httpServer(cfg.HTTPAddr)

	log.Info().Str("role", cfg.Role).Str("address", selfAddr).Str("transport", cfg.Transport).Msg("starting")

	var wire Wire
	var counterparty dialogue.Address
	switch cfg.Transport {
	case "loopback":
		wire, counterparty = setupLoopback(cfg, selfAddr)
	case "ws":
		wire, counterparty = setupWS(cfg, selfAddr)
	default:
		log.Fatal().Str("transport", cfg.Transport).Msg("unknown transport")
	}

	var runErr error
	if cfg.Role == "initiator" {
		runErr = RunInitiator(dialogues, wire, counterparty)
	} else {
		runErr = RunResponder(dialogues, wire, "10 units for 5 credits")
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("negotiation failed")
		return
	}
	log.Info().
		Interface("self_initiated_stats", dialogues.Stats().SelfInitiated()).
		Interface("opponent_initiated_stats", dialogues.Stats().OpponentInitiated()).
		Msg("negotiation complete")
}

// setupLoopback wires both sides of an in-process pair when running the
// demo as a single process with -transport=loopback (the default): no
// network needed to see two agents negotiate. Since an in-process pair has
// no meaning across two separate OS processes, this spins up the opposite
// role as a background goroutine of its own, regardless of which role was
// requested on the command line — -role then only picks whose point of
// view is logged at Info level.
func setupLoopback(cfg *config.Config, selfAddr string) (Wire, dialogue.Address) {
	counterpartyRole := "responder"
	if cfg.Role == "responder" {
		counterpartyRole = "initiator"
	}
	a, b := loopback.NewPair(selfAddr, counterpartyRole)
	if cfg.Role == "initiator" {
		go func() {
			if err := RunResponder(fipa.NewDialogues(counterpartyRole), b, "10 units for 5 credits"); err != nil {
				log.Error().Err(err).Msg("background responder failed")
			}
		}()
		return a, counterpartyRole
	}
	go func() {
		if err := RunInitiator(fipa.NewDialogues(counterpartyRole), a, selfAddr); err != nil {
			log.Error().Err(err).Msg("background initiator failed")
		}
	}()
	return b, counterpartyRole
}

func setupWS(cfg *config.Config, selfAddr string) (Wire, dialogue.Address) {
	if cfg.Role == "responder" {
		l, err := wsconn.Listen(cfg.ListenAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("listening for ws connections")
		}
		log.Info().Str("addr", l.Addr().String()).Msg("listening")
		conn, err := wsconn.Accept(l)
		if err != nil {
			log.Fatal().Err(err).Msg("accepting ws connection")
		}
		return conn, "initiator"
	}

	conn, err := wsconn.Dial(context.Background(), cfg.ListenAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("dialing ws responder")
	}
	return conn, "responder"
}

func httpServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("serving /metrics")
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("http server stopped")
	}
}
