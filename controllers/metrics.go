package controllers

import "github.com/prometheus/client_golang/prometheus"

var (
	importsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plantkeeper_imports_total",
		Help: "Total backup imports completed",
	})
	exportsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plantkeeper_exports_total",
		Help: "Total backup exports served",
	})
	importWarningsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plantkeeper_import_warnings_total",
		Help: "Total non-fatal warnings recorded during imports",
	})
)

func init() {
	prometheus.MustRegister(importsCounter, exportsCounter, importWarningsCounter)
}
