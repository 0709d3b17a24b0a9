package utils

import (
	"log"

	"lms/config"
	"lms/database"
	courseService "lms/services/course"

	"github.com/robfig/cron/v3"
)

// InitializeReconcileScheduler sets up the periodic sweep that promotes
// virtual certificates from the local store into the durable database.
func InitializeReconcileScheduler() {
	log.Println("[CERT-RECONCILER] Initializing virtual certificate reconciler...")

	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.ReconcileCron, func() {
		ReconcileVirtualCertificates()
	})
	if err != nil {
		log.Printf("[CERT-RECONCILER] Invalid schedule %q: %v", config.AppConfig.ReconcileCron, err)
		return
	}

	c.Start()
	log.Printf("[CERT-RECONCILER] Reconciler started with schedule %q", config.AppConfig.ReconcileCron)
}

// ReconcileVirtualCertificates runs one sweep.
func ReconcileVirtualCertificates() {
	db := database.Database.Db
	local := database.LocalStore.Db
	if db == nil || local == nil {
		return
	}

	promoted := courseService.PromoteVirtualCertificates(db, local, config.AppConfig.ReconcileBatchSz)
	if promoted > 0 {
		log.Printf("[CERT-RECONCILER] Promoted %d virtual certificate(s) to the durable store", promoted)
	}
}
