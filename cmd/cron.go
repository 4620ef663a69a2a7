package cmd

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// startCron 定时刷新后台统计，并从Redis合并其他进程写入的用户名
func (a *app) startCron(ctx context.Context) (*cron.Cron, error) {
	loc := time.Local
	if a.cfg.Cron.Timezone != "" {
		l, err := time.LoadLocation(a.cfg.Cron.Timezone)
		if err != nil {
			return nil, err
		}
		loc = l
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))
	if _, err := c.AddFunc(a.cfg.Cron.StatsSpec, func() {
		if _, err := a.services.Admin.RefreshStats(ctx); err != nil {
			a.log.Errorf("刷新后台统计失败: %v", err)
		}
	}); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("@every 5m", func() {
		if err := a.userFilter.LoadFromRedis(ctx); err != nil {
			a.log.Warnf("同步用户过滤器失败: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
