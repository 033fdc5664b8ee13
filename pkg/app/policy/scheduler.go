package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultReloadSchedule = "@every 5m"
	reloadTimeout         = 30 * time.Second
)

// Scheduler periodically reloads the policies so a node that missed a pub/sub
// event converges anyway.
type Scheduler struct {
	logger *logrus.Logger
	loader Loader
	cron   *cron.Cron
}

func NewScheduler(logger *logrus.Logger, loader Loader, spec string) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultReloadSchedule
	}
	s := &Scheduler{
		logger: logger,
		loader: loader,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cors policy reload scheduler started")
}

// Stop waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if _, err := s.loader.Reload(ctx); err != nil {
		s.logger.WithError(err).Error("scheduled cors policy reload failed")
	}
}
