package handlers

import (
	"time"

	"github.com/davinmk/music_lessons/database"
	"github.com/davinmk/music_lessons/models"
	"github.com/davinmk/music_lessons/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CourseRequest struct {
	Title              string   `json:"title" validate:"required,min=3"`
	Description        *string  `json:"description,omitempty"`
	Instrument         string   `json:"instrument" validate:"required"`
	Level              *string  `json:"level,omitempty"`
	Price              float64  `json:"price" validate:"gte=0"`
	Currency           string   `json:"currency,omitempty"`
	RoomID             *string  `json:"room_id,omitempty" validate:"omitempty,uuid"`
	StartDate          *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate            *string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DaysOfWeek         *string  `json:"days_of_week,omitempty"`
	DefaultStartTime   *string  `json:"default_start_time,omitempty"`
	DefaultEndTime     *string  `json:"default_end_time,omitempty"`
	MaxStudentsPerSlot int      `json:"max_students_per_slot,omitempty"`
	CoverImageURL      *string  `json:"cover_image_url,omitempty"`
}

func (req *CourseRequest) apply(course *models.Course) error {
	course.Title = req.Title
	course.Description = req.Description
	course.Instrument = req.Instrument
	course.Level = req.Level
	course.Price = req.Price
	if req.Currency != "" {
		course.Currency = req.Currency
	}
	if req.RoomID != nil {
		roomID, err := uuid.Parse(*req.RoomID)
		if err != nil {
			return err
		}
		course.RoomID = &roomID
	}
	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return err
		}
		course.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return err
		}
		course.EndDate = &end
	}
	course.DaysOfWeek = req.DaysOfWeek
	course.DefaultStartTime = req.DefaultStartTime
	course.DefaultEndTime = req.DefaultEndTime
	if req.MaxStudentsPerSlot > 0 {
		course.MaxStudentsPerSlot = req.MaxStudentsPerSlot
	} else if course.MaxStudentsPerSlot == 0 {
		course.MaxStudentsPerSlot = 1
	}
	course.CoverImageURL = req.CoverImageURL
	return nil
}

func CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var course models.Course
	if err := req.apply(&course); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	course.IsActive = true

	if err := database.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course"})
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.apply(&course); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update course"})
	}
	return c.JSON(course)
}

// DeactivateCourse soft-deletes: the course disappears from the catalog
// but existing slots and enrollments stay intact.
func DeactivateCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	course.IsActive = false
	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate course"})
	}
	return c.JSON(fiber.Map{"message": "Course deactivated"})
}

// ListCourses is the public catalog search: free-text on title, plus
// instrument / building / price filters.
func ListCourses(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Course{}).Preload("Room.Building").Where("courses.is_active = ?", true)

	if q := c.Query("q"); q != "" {
		query = query.Where("courses.title ILIKE ?", "%"+q+"%")
	}
	if instrument := c.Query("instrument"); instrument != "" {
		query = query.Where("courses.instrument = ?", instrument)
	}
	if buildingID := c.Query("building_id"); buildingID != "" {
		query = query.
			Joins("JOIN rooms ON rooms.id = courses.room_id").
			Where("rooms.building_id = ?", buildingID)
	}
	if maxPrice := c.QueryFloat("max_price"); maxPrice > 0 {
		query = query.Where("courses.price <= ?", maxPrice)
	}

	var courses []models.Course
	if err := query.Order("courses.created_at desc").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load courses"})
	}
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.Preload("Room.Building").First(&course, "id = ? AND is_active = ?", courseID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(course)
}

// GetCourseSlots lists a course's upcoming bookable slots.
func GetCourseSlots(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var slots []models.TimeSlot
	err := database.DB.
		Where("course_id = ? AND is_active = ? AND status = ? AND start_time > ?",
			courseID, true, models.SlotStatusScheduled, time.Now()).
		Order("start_time asc").
		Find(&slots).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load slots"})
	}
	return c.JSON(slots)
}

func GenerateCourseSlots(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	considered, err := services.GenerateSlotsForCourse(database.DB, courseID)
	if err != nil {
		return respondError(c, err)
	}

	// Duplicates are skipped on insert, so this can exceed the number of
	// rows actually created.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"slots_considered": considered})
}

type CancelSlotRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func CancelSlot(c *fiber.Ctx) error {
	adminID := currentUserID(c)
	slotID, err := uuid.Parse(c.Params("slotId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot id"})
	}

	var req CancelSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.CancelSlot(database.DB, slotID, adminID, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Slot cancelled and students notified"})
}
