package services

import (
	"log"
	"sync"
	"time"
	"ventlink/internal/db"
	"ventlink/internal/models"
	"ventlink/internal/utils"
)

// RankingService 提供异步计算和更新帖子 HotRank 的服务
// Votes bump score transactionally; the hot rank derived from score and age
// is refreshed out of band by this worker. Feeds read the stored column.
type RankingService struct {
	queue   chan uint
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	rankingService *RankingService
	once           sync.Once
)

// GetRankingService 获取单例排名服务
func GetRankingService() *RankingService {
	once.Do(func() {
		rankingService = &RankingService{
			queue:   make(chan uint, 1000), // 缓冲队列，防止阻塞
			pending: make(map[uint]bool),
		}
		go rankingService.worker()
	})
	return rankingService
}

// ScheduleUpdate 将帖子加入更新队列（异步）
// 使用去重机制避免短时间内重复计算同一帖子
func (s *RankingService) ScheduleUpdate(postID uint) {
	s.mu.Lock()
	if s.pending[postID] {
		s.mu.Unlock()
		return
	}
	s.pending[postID] = true
	s.mu.Unlock()

	select {
	case s.queue <- postID:
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, postID)
		s.mu.Unlock()
		log.Printf("ranking queue full, skipping post %d", postID)
	}
}

// worker 后台处理队列中的更新请求
func (s *RankingService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case postID := <-s.queue:
			batch = append(batch, postID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *RankingService) processBatch(postIDs []uint) {
	now := time.Now()
	for _, postID := range postIDs {
		s.updatePostRank(postID, now)

		s.mu.Lock()
		delete(s.pending, postID)
		s.mu.Unlock()
	}
}

// updatePostRank 计算并更新单个帖子的 HotRank
func (s *RankingService) updatePostRank(postID uint, now time.Time) {
	// snapshot the handle; the worker can outlive a swapped-out test database
	conn := db.DB
	if conn == nil {
		return
	}

	var post models.Post
	if err := conn.Select("id, score, created_at").First(&post, postID).Error; err != nil {
		log.Printf("hot rank update skipped, post %d not found", postID)
		return
	}

	rank := utils.HotRankMicros(post.Score, post.CreatedAt, now)
	if err := conn.Model(&post).UpdateColumn("hot_rank", rank).Error; err != nil {
		log.Printf("failed to update hot rank for post %d: %v", postID, err)
	}
}

// UpdatePostRankSync 同步更新帖子 HotRank（用于需要立即生效的场景）
func UpdatePostRankSync(postID uint) {
	GetRankingService().updatePostRank(postID, time.Now())
}

// StartScheduledRefresh re-ranks the posts whose position can still move:
// everything from the last 7 days plus the current top of the hot feed.
// Age decay means older posts only ever sink, so one sweep per interval is
// enough to keep the ordering honest.
func (s *RankingService) StartScheduledRefresh(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			s.refreshHotPosts()
		}
	}()
}

// refreshHotPosts 更新最近 7 天和当前热度最高的帖子（边遍历边去重）
func (s *RankingService) refreshHotPosts() {
	processed := make(map[uint]bool)
	count := 0
	now := time.Now()

	sevenDaysAgo := now.AddDate(0, 0, -7)
	var recentPosts []models.Post
	db.DB.Where("created_at >= ?", sevenDaysAgo).Select("id").Find(&recentPosts)
	for _, p := range recentPosts {
		s.updatePostRank(p.ID, now)
		processed[p.ID] = true
		count++
	}

	var topPosts []models.Post
	db.DB.Order("hot_rank DESC").Limit(100).Select("id").Find(&topPosts)
	for _, p := range topPosts {
		if !processed[p.ID] {
			s.updatePostRank(p.ID, now)
			count++
		}
	}

	log.Printf("hot rank refresh touched %d posts", count)
}
