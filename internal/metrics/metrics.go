package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engagement counters exposed on /metrics.
type Metrics struct {
	ViewsRecorded   prometheus.Counter
	LikeToggles     *prometheus.CounterVec
	CommentsCreated prometheus.Counter
	CommentsEdited  prometheus.Counter
	CommentsDeleted prometheus.Counter
}

// New registers the engagement metrics against reg. Tests pass their own
// registry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ViewsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "blogpulse_views_recorded_total",
			Help: "Total number of post view events recorded",
		}),
		LikeToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blogpulse_like_toggles_total",
			Help: "Total number of like toggles applied, by result",
		}, []string{"target", "result"}),
		CommentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "blogpulse_comments_created_total",
			Help: "Total number of comments created",
		}),
		CommentsEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "blogpulse_comments_edited_total",
			Help: "Total number of comments edited",
		}),
		CommentsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "blogpulse_comments_deleted_total",
			Help: "Total number of comments soft-deleted",
		}),
	}
}

// ToggleApplied records an applied like toggle for a post or comment.
func (m *Metrics) ToggleApplied(target string, liked bool) {
	result := "unliked"
	if liked {
		result = "liked"
	}
	m.LikeToggles.WithLabelValues(target, result).Inc()
}
