package handlers

import (
	"errors"
	"log"
	"math"
	"strings"

	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/notifications"
	"github.com/davinmk/music_lessons/payments"
	"github.com/davinmk/music_lessons/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InitiatePaymentRequest struct {
	EnrollmentID     string `json:"enrollment_id" validate:"required,uuid"`
	PaymentProvider  string `json:"payment_provider" validate:"required,oneof=mpesa credit"`
	MpesaPhoneNumber string `json:"mpesa_phone_number,omitempty"`
}

// InitiatePayment collects payment for an enrollment, either from the
// student's credit balance or via an M-Pesa STK push. Waitlisted
// enrollments are payable too; the seat itself is granted by promotion.
func InitiatePayment(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	enrollmentID, _ := uuid.Parse(req.EnrollmentID)

	var enrollment models.SlotEnrollment
	if err := database.DB.Preload("Slot.Course").First(&enrollment, "id = ? AND student_id = ?", enrollmentID, studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if enrollment.Status == models.EnrollmentStatusCancelled {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Cannot pay for a cancelled booking"})
	}
	if enrollment.PaymentID != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This booking already has a payment"})
	}

	price := enrollment.Slot.Course.Price
	currency := enrollment.Slot.Course.Currency

	if req.PaymentProvider == "credit" {
		var payment models.Payment
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var student models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&student, "id = ?", studentID).Error; err != nil {
				return err
			}
			if student.CreditBalance < price {
				return errors.New("insufficient credit balance")
			}
			student.CreditBalance -= price
			if err := tx.Save(&student).Error; err != nil {
				return err
			}

			payment = models.Payment{
				EnrollmentID: &enrollment.ID,
				Amount:       price,
				Currency:     currency,
				Provider:     "credit",
				Status:       "succeeded",
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}

			enrollment.PaymentID = &payment.ID
			return tx.Save(&enrollment).Error
		})
		if err != nil {
			if err.Error() == "insufficient credit balance" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient credit balance to make this purchase."})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process credit payment"})
		}

		notifications.NotifyUser(database.DB, studentID, models.NotificationPaymentSucceeded,
			"Payment Received",
			"<h1>Payment Received</h1><p>Your lesson has been paid for from your credit balance.</p>")

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": payment})
	}

	if req.MpesaPhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "M-Pesa phone number is required"})
	}

	if currency != "KES" {
		kesPrice, err := services.ConvertUSDToKES(price)
		if err != nil {
			log.Printf("🔥 Currency conversion failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not perform currency conversion."})
		}
		price = math.Round(kesPrice)
		currency = "KES"
	}

	payment := models.Payment{
		EnrollmentID: &enrollment.ID,
		Amount:       price,
		Currency:     currency,
		Provider:     "mpesa",
		Status:       "pending",
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment record"})
	}

	stkResponse, err := payments.InitiateMpesaSTKPush(price, req.MpesaPhoneNumber, payment.ID.String())
	if err != nil {
		log.Printf("🔥 CRITICAL: InitiateMpesaSTKPush failed: %v", err)
		if err.Error() == "invalid M-Pesa phone number format" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	payment.MerchantRequestID = &stkResponse.Response.MerchantRequestID
	database.DB.Save(&payment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id":       payment.ID,
		"customer_message": stkResponse.Response.CustomerMessage,
	})
}

type KcbWebhookPayload struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
			Reference string `json:"Reference"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

func HandlePaymentWebhook(c *fiber.Ctx) error {
	var payload KcbWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	stk := payload.Body.StkCallback

	var paymentRefID string
	parts := strings.Split(stk.Reference, "-")
	if len(parts) == 2 {
		paymentRefID = parts[1]
	} else {
		paymentRefID = stk.Reference
	}

	log.Printf("Received webhook for MerchantRequestID: %s, PaymentRefID: %s, ResultCode: %d",
		stk.MerchantRequestID, paymentRefID, stk.ResultCode)

	var payment models.Payment
	if err := database.DB.Where("id = ?", paymentRefID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}

	if payment.Status == "succeeded" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	if stk.ResultCode != 0 {
		payment.Status = "failed"
		database.DB.Save(&payment)

		if payment.EnrollmentID != nil {
			var enrollment models.SlotEnrollment
			if err := database.DB.First(&enrollment, "id = ?", payment.EnrollmentID).Error; err == nil {
				notifications.NotifyUser(database.DB, enrollment.StudentID, models.NotificationPaymentFailed,
					"Payment Failed",
					"<h1>Payment Failed</h1><p>Your M-Pesa payment was not completed. Please try again.</p>")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Acknowledged failed payment"})
	}

	var studentID uuid.UUID
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var mpesaReceipt string
		for _, item := range stk.CallbackMetadata.Item {
			if item.Name == "MpesaReceiptNumber" {
				if val, ok := item.Value.(string); ok {
					mpesaReceipt = val
					break
				}
			}
		}

		payment.Status = "succeeded"
		payment.ProviderTxnID = &mpesaReceipt
		payment.MerchantRequestID = &stk.MerchantRequestID
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if payment.EnrollmentID != nil {
			var enrollment models.SlotEnrollment
			if err := tx.First(&enrollment, "id = ?", payment.EnrollmentID).Error; err != nil {
				return err
			}
			enrollment.PaymentID = &payment.ID
			if err := tx.Save(&enrollment).Error; err != nil {
				return err
			}
			studentID = enrollment.StudentID
		}
		return nil
	})
	if err != nil {
		log.Printf("🔥 Failed to finalize payment %s: %v", payment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to finalize payment"})
	}

	if studentID != uuid.Nil {
		notifications.NotifyUser(database.DB, studentID, models.NotificationPaymentSucceeded,
			"Payment Received",
			"<h1>Payment Received</h1><p>Your M-Pesa payment was successful. Enjoy your lesson!</p>")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Payment processed"})
}

func GetMyPayments(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var userPayments []models.Payment
	err := database.DB.
		Joins("JOIN slot_enrollments ON slot_enrollments.id = payments.enrollment_id").
		Where("slot_enrollments.student_id = ?", studentID).
		Order("payments.created_at desc").
		Find(&userPayments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load payments"})
	}
	return c.JSON(userPayments)
}
