package application

import (
	"fmt"

	"github.com/AzielCF/az-press/caching/domain"
	"github.com/sirupsen/logrus"
)

// absorb turns a backend failure into a degraded result and logs it.
func absorb(component, op, key string, err error) domain.Result {
	logrus.WithError(err).WithField("key", key).Warnf("[%s] %s degraded to no-op", component, op)
	return domain.Degraded(fmt.Errorf("%w: %s %s: %v", domain.ErrUnavailable, op, key, err))
}
