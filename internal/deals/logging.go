package deals

import (
	"github.com/sirupsen/logrus"
)

func (s *Store) logEntry() *logrus.Entry {
	return s.log.WithComponent("deals").WithField("role", s.role)
}

func (s *Store) dealEntry(dealID int64) *logrus.Entry {
	return s.logEntry().WithField("deal_id", dealID)
}
