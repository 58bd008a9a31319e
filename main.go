/* main.go
 * The "main" method for running the frame server, the result relay or the Discord bot.
 * Usage: go run . -mode=<frame|relay|bot> [-addr=<listen address>]
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"l2match/api/api"
	"l2match/api/external"
	"l2match/api/store"
	"l2match/bot"
	"l2match/relay"
	"l2match/web"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using the environment")
	}

	modePtr := flag.String("mode", "frame", "Process to run: frame, relay or bot")
	addrPtr := flag.String("addr", "", "Listen address, overrides FRAME_ADDR or RELAY_ADDR")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	switch *modePtr {
	case "relay":
		addr := cfg.RelayAddr
		if *addrPtr != "" {
			addr = *addrPtr
		}
		err = relay.Start(relay.Config{
			Addr:           addr,
			RateLimit:      cfg.RelayRateLimit,
			Burst:          cfg.RelayBurst,
			MaxMessageSize: cfg.RelayMaxMessageSize,
			AllowedOrigin:  cfg.RelayAllowedOrigin,
		})

	case "frame":
		if *addrPtr != "" {
			cfg.FrameAddr = *addrPtr
		}
		err = runFrame(cfg)

	case "bot":
		err = runBot(cfg)

	default:
		err = fmt.Errorf("unknown mode %q", *modePtr)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func runFrame(cfg Config) error {
	a, closeAll, err := newAPI(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return web.Start(web.Config{
		Addr:           cfg.FrameAddr,
		API:            a,
		AllowedOrigins: cfg.allowedOrigins(),
	})
}

func runBot(cfg Config) error {
	a, closeAll, err := newAPI(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	b, err := bot.NewBot(cfg.DiscordToken, a)
	if err != nil {
		return err
	}
	return b.Run()
}

// newAPI builds the pipeline and its collaborators. Collaborators that are not configured or cannot be reached are
// left unset, which makes the operations needing them report that they are unavailable.
// Postconditions: the returned func closes the store and every collaborator that was connected
func newAPI(cfg Config) (*api.API, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, err := newKV(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	a, err := api.NewAPI(store.NewStore(kv, cfg.StoreTimeout), api.Config{
		BaseURL:             cfg.BaseURL,
		UserID:              cfg.UserID,
		CollaboratorTimeout: cfg.CollaboratorTimeout,
		SessionTTL:          cfg.SessionTTL,
		MaxSessions:         cfg.MaxSessions,
	})
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	closers := []func(){func() {
		if err := a.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}}

	ledger, err := external.NewEthLedger(ctx, external.LedgerConfig{
		RPCURL:          cfg.LedgerRPCURL,
		ContractAddress: cfg.LedgerContract,
		PrivateKey:      cfg.LedgerPrivateKey,
	})
	if err != nil {
		log.Printf("Ledger disabled: %v", err)
	} else {
		a.Ledger = ledger
		closers = append(closers, ledger.Close)
	}

	messenger, err := external.NewAMQPMessenger(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Printf("Messaging disabled: %v", err)
	} else {
		a.Messenger = messenger
		closers = append(closers, func() { messenger.Close() })
	}

	if cfg.RelayURL != "" {
		a.Relay = relay.NewClient(cfg.RelayURL)
	} else {
		log.Println("Relay publishing disabled: RELAY_URL not set")
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return a, closeAll, nil
}

// newKV connects the configured key-value backend
func newKV(ctx context.Context, cfg Config) (store.KV, error) {
	switch cfg.KVBackend {
	case "mongo":
		log.Println("Using mongo key-value store")
		return store.NewMongoKV(ctx, cfg.MongoURI, cfg.MongoDB)
	case "memory":
		log.Println("Using in memory key-value store, results will not survive a restart")
		return store.NewMemoryKV(), nil
	default:
		log.Println("Using redis key-value store")
		return store.NewRedisKV(ctx, store.RedisConfig{
			URL:      cfg.RedisURL,
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
}
