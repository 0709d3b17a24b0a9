package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseService "lms/services/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// notifyIssued fires the best-effort side channels for a fresh durable
// certificate. Never blocks or fails the request.
func notifyIssued(user *models.User, issued *courseService.IssuedCertificate) {
	if issued.IsVirtual {
		return
	}
	go utils.SendCertificateIssuedEmail(user.Email, issued.UserName, issued.CourseName, issued.CertificateNumber)
	go utils.NotifyCertificateIssued(utils.CertificateIssuedEvent{
		UserID:            issued.UserID,
		CourseID:          issued.CourseID,
		CertificateNumber: issued.CertificateNumber,
		CourseName:        issued.CourseName,
	})
}

// GenerateCertificate issues a certificate for a completed course
func GenerateCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	issued, err := courseService.GenerateCertificate(database.Database.Db, database.LocalStore.Db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	notifyIssued(&user, issued)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate generated successfully!", issued)
}

// ForceGenerateCertificate issues a certificate bypassing the completion check
func ForceGenerateCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	issued, err := courseService.ForceGenerateCertificate(database.Database.Db, database.LocalStore.Db, userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	notifyIssued(&user, issued)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate generated successfully!", issued)
}

// BackfillCertificates force-generates certificates for a set of
// completed courses
func BackfillCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedBackfill").(*struct {
		CourseIDs []uint `json:"course_ids" validate:"required,min=1,dive,gt=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	succeeded := courseService.BatchForceGenerate(database.Database.Db, database.LocalStore.Db, userID, reqData.CourseIDs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates generated!", fiber.Map{
		"requested": len(reqData.CourseIDs),
		"succeeded": succeeded,
	})
}

// GetUserCertificates gets all certificates for the current user,
// including any virtual certificates still waiting on reconciliation
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var certificates []courseModels.Certificate
	err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").
		Find(&certificates).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	// Virtual certificates are local-only; a failure to read them never
	// hides the durable ones.
	virtuals, err := courseService.ListVirtualCertificates(database.LocalStore.Db, userID)
	if err != nil {
		virtuals = nil
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates":         certificates,
		"virtual_certificates": virtuals,
	})
}
