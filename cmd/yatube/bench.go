package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
)

var (
	flagBenchN    int
	flagBenchConc int
	flagBenchPage int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Load-test follow writes and read paths against the configured database",
}

var benchFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "N users follow one author; report follow, replication and feed latency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		return benchFollow(cmd.Context(), db)
	},
}

var benchIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Read index pages N times and report latency with and without the page cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		return benchIndex(cmd.Context(), db)
	},
}

func init() {
	benchCmd.PersistentFlags().IntVar(&flagBenchN, "n", 1000, "Number of operations")
	benchCmd.PersistentFlags().IntVar(&flagBenchConc, "conc", 8, "Concurrent workers")
	benchCmd.PersistentFlags().IntVar(&flagBenchPage, "page", 50, "Page size for list queries")
	benchCmd.AddCommand(benchFollowCmd, benchIndexCmd)
	rootCmd.AddCommand(benchCmd)
}

// seedUsers 批量写入 n 个用户
func seedUsers(db *gorm.DB, prefix string, n int) ([]model.User, error) {
	users := make([]model.User, n)
	for i := range users {
		id := uuid.NewString()
		users[i] = model.User{ID: id, Username: prefix + id[:8], PasswordHash: "x"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

func benchFollow(ctx context.Context, db *gorm.DB) error {
	users := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	replicator := service.NewFanReplicator(fanRepo, flagBenchN, cfg.Replicator.Workers)
	stop := replicator.Start()
	relSvc := service.NewRelationshipService(followRepo, fanRepo, users, replicator)
	postSvc := service.NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), nil, nil, flagBenchPage)

	celebs, err := seedUsers(db, "celeb", 1)
	if err != nil {
		return err
	}
	celeb := &celebs[0]
	for i := 0; i < 20; i++ {
		if _, err := postSvc.CreatePost(ctx, celeb, service.CreatePostInput{Text: fmt.Sprintf("bench post %d", i)}); err != nil {
			return err
		}
	}
	fans, err := seedUsers(db, "fan", flagBenchN)
	if err != nil {
		return err
	}

	maxQ := 0
	quitSample := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := replicator.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-quitSample:
				return
			}
		}
	}()

	t0 := time.Now()
	followLat := runConcurrent(len(fans), flagBenchConc, func(i int) {
		_ = relSvc.Follow(ctx, fans[i].ID, celeb.ID)
	})
	followDur := time.Since(t0)
	close(quitSample)

	drainStart := time.Now()
	if err := stop(ctx); err != nil {
		return err
	}
	drainDur := time.Since(drainStart)

	feedLat := runConcurrent(len(fans), flagBenchConc, func(i int) {
		_, _ = postSvc.ListFeed(ctx, fans[i].ID, 1)
	})

	q0 := time.Now()
	_, _ = relSvc.ListFans(ctx, celeb.ID, 1, flagBenchPage)
	fansDur := time.Since(q0)
	followers, _ := relSvc.CountFollowers(ctx, celeb.ID)
	replicated, _ := fanRepo.Count(ctx, celeb.ID)

	fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", flagBenchN, flagBenchConc, flagBenchPage)
	fmt.Printf("Follow total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(max(flagBenchN, 1)), pct(followLat, 0.50), pct(followLat, 0.95), pct(followLat, 0.99))
	fmt.Printf("Replication drain: %v, maxQueue=%d, followers=%d, fans=%d\n", drainDur, maxQ, followers, replicated)
	fmt.Printf("Feed page latency: p50: %v, p95: %v, p99: %v\n", pct(feedLat, 0.50), pct(feedLat, 0.95), pct(feedLat, 0.99))
	fmt.Printf("Query fans(%d) latency: %v\n", flagBenchPage, fansDur)
	return nil
}

func benchIndex(ctx context.Context, db *gorm.DB) error {
	var pageCache cache.PageCache = cache.Nop{}
	var redisCache *cache.RedisPageCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		redisCache = cache.NewRedisPageCache(client, cfg.Cache.Prefix+":bench", cfg.Cache.IndexTTL)
		pageCache = redisCache
	}

	posts := repository.NewPostRepository(db)
	groups := repository.NewGroupRepository(db)
	direct := service.NewPostService(posts, groups, nil, nil, cfg.Pagination.PageSize)
	cached := service.NewPostService(posts, groups, nil, pageCache, cfg.Pagination.PageSize)

	// 前 5 页承担大部分流量
	pageOf := func(i int) int { return i%5 + 1 }

	directLat := runConcurrent(flagBenchN, flagBenchConc, func(i int) {
		_, _ = direct.ListIndex(ctx, pageOf(i))
	})
	cachedLat := runConcurrent(flagBenchN, flagBenchConc, func(i int) {
		_, _ = cached.ListIndex(ctx, pageOf(i))
	})

	fmt.Printf("N=%d, CONC=%d, page_size=%d, redis=%v\n", flagBenchN, flagBenchConc, cfg.Pagination.PageSize, cfg.Redis.Enabled)
	fmt.Printf("DB only:    p50: %v, p95: %v, p99: %v\n", pct(directLat, 0.50), pct(directLat, 0.95), pct(directLat, 0.99))
	fmt.Printf("With cache: p50: %v, p95: %v, p99: %v\n", pct(cachedLat, 0.50), pct(cachedLat, 0.95), pct(cachedLat, 0.99))
	if redisCache != nil {
		st := redisCache.Stats()
		fmt.Printf("Cache hits=%d misses=%d\n", st.Hits, st.Misses)
		_ = redisCache.Invalidate(ctx, service.IndexNamespace)
	}
	return nil
}

// runConcurrent 用 conc 个 worker 执行 n 次 fn，返回每次耗时
func runConcurrent(n, conc int, fn func(i int)) []time.Duration {
	if conc < 1 {
		conc = 1
	}
	if conc > n {
		conc = n
	}
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	lat := make([]time.Duration, n)
	var wg sync.WaitGroup
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				st := time.Now()
				fn(i)
				lat[i] = time.Since(st)
			}
		}()
	}
	wg.Wait()
	return lat
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
