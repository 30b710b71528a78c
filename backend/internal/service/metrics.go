package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movementsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "peopledesk",
		Subsystem: "department_history",
		Name:      "movements_created_total",
		Help:      "新建的部门调动数",
	})

	movementsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "peopledesk",
		Subsystem: "department_history",
		Name:      "movements_closed_total",
		Help:      "因新调动而结束的在任记录数",
	})

	workflowRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peopledesk",
		Subsystem: "department_history",
		Name:      "rejections_total",
		Help:      "按操作和结果统计的被拒绝调动操作数",
	}, []string{"operation", "outcome"})
)
