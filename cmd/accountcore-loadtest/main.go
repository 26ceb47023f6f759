package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrEthical07/accountcore"
	"github.com/MrEthical07/accountcore/metrics/export/prometheus"
	"github.com/MrEthical07/accountcore/store/redisstore"
)

const loadPassword = "L0ad!Test"

func main() {
	var (
		users       = flag.Int("users", 2000, "number of users to register")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 20000, "operations per phase (verify + authenticate)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "acu-load", "user key prefix")
		envFile     = flag.String("env-file", ".env", "optional dotenv file")
		showMetrics = flag.Bool("metrics", false, "print Prometheus exposition after the run")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := accountcore.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.SecretKey == "" {
		cfg.JWT.SecretKey = "loadtest-secret"
	}
	if os.Getenv("PASSWORD_PRIMARY_ALGORITHM") == "" {
		// Load measures the store and token paths, not the KDF.
		cfg.Password.Primary = accountcore.PasswordBcrypt
		cfg.Password.BcryptCost = bcrypt.MinCost
	}
	cfg.Metrics.EnableLatencyHistograms = true

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	m, err := accountcore.New[*accountcore.BaseUser]().
		WithConfig(cfg).
		WithUserStore(redisstore.New(client, *prefix)).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build manager: %v\n", err)
		os.Exit(1)
	}

	registered, registerStats := runRegisterPhase(ctx, m, *users, *concurrency)
	if len(registered) == 0 {
		fmt.Fprintln(os.Stderr, "no users registered")
		os.Exit(1)
	}
	verifyStats := runVerifyPhase(ctx, m, registered, *ops, *concurrency)
	authStats := runAuthenticatePhase(ctx, m, registered, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("register", registerStats)
	printStats("verify", verifyStats)
	printStats("authenticate", authStats)

	if *showMetrics {
		fmt.Println("---- metrics ----")
		fmt.Print(prometheus.NewPrometheusExporter(m).Render())
	}
}

// runWorkers spreads n operations across concurrency goroutines and records
// the latency of each call to op.
func runWorkers(n, concurrency int, seed int64, op func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, n)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seed))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= n {
					return
				}
				t0 := time.Now()
				err := op(r, i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runRegisterPhase(ctx context.Context, m *accountcore.Manager[*accountcore.BaseUser], users, concurrency int) ([]*accountcore.BaseUser, phaseStats) {
	out := make([]*accountcore.BaseUser, users)
	fmt.Printf("registering %d users...\n", users)
	stats := runWorkers(users, concurrency, 7919, func(_ *rand.Rand, i int) error {
		u, err := m.Create(ctx, accountcore.UserCreate{
			Email:    fmt.Sprintf("user-%d@load.test", i),
			Password: loadPassword,
		}, true)
		if err != nil {
			return err
		}
		out[i] = u
		return nil
	})

	registered := out[:0]
	for _, u := range out {
		if u != nil {
			registered = append(registered, u)
		}
	}
	return registered, stats
}

// runVerifyPhase issues a token pair and redeems it. Users verified earlier in
// the phase fail with ErrUserAlreadyVerified and count as failures.
func runVerifyPhase(ctx context.Context, m *accountcore.Manager[*accountcore.BaseUser], users []*accountcore.BaseUser, ops, concurrency int) phaseStats {
	return runWorkers(ops, concurrency, 6151, func(r *rand.Rand, _ int) error {
		u := users[r.Intn(len(users))]
		tokens, err := m.RequestVerify(ctx, u, accountcore.WithScopes("verify"))
		if err != nil {
			return err
		}
		_, err = m.Verify(ctx, tokens.AccessToken)
		return err
	})
}

func runAuthenticatePhase(ctx context.Context, m *accountcore.Manager[*accountcore.BaseUser], users []*accountcore.BaseUser, ops, concurrency int) phaseStats {
	return runWorkers(ops, concurrency, 4099, func(r *rand.Rand, _ int) error {
		u := users[r.Intn(len(users))]
		_, err := m.Authenticate(ctx, u.Email, loadPassword)
		return err
	})
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
