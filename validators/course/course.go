package courseValidator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"coursedesk/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the strongly-typed course-creation input. All
// numeric fields are already coerced; optional garbage became zero values,
// it never errors past this boundary.
type CreateCourseRequest struct {
	Name          string
	Teacher       string
	Image         string
	PricingType   string
	Price         models.Price
	Overview      string
	TotalDuration models.Duration
	TotalLectures int
	Lectures      []models.Lecture
	CourseType    string
	Category      string
	CreatedBy     string
}

// RateCourseRequest is a validated rating submission.
type RateCourseRequest struct {
	Rating  float64
	Comment string
}

// CreateCourse converts a course-creation body, JSON or multipart, into a
// CreateCourseRequest. Admin tooling sends nested objects either as real
// JSON, as JSON-encoded form fields, or as dotted form fields
// (`price.original`); all three are accepted.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData *CreateCourseRequest
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			reqData = parseMultipartCourse(c)
		} else {
			parsed, err := parseJSONCourse(c)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"error":   "Invalid request body",
				})
			}
			reqData = parsed
		}

		reqData.Price.Original = nonNegative(reqData.Price.Original)
		reqData.Price.Sale = nonNegative(reqData.Price.Sale)
		if reqData.CourseType == "" {
			reqData.CourseType = "regular"
		}
		if reqData.PricingType == "" {
			reqData.PricingType = "free"
		}
		if reqData.Lectures == nil {
			reqData.Lectures = []models.Lecture{}
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// RateCourse rejects anything outside [1,5] before the handler runs.
func RateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			Rating  json.RawMessage `json:"rating"`
			Comment string          `json:"comment"`
		})
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid rating",
			})
		}

		rating, ok := decodeNumber(body.Rating)
		if !ok || rating < 1 || rating > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid rating",
			})
		}

		c.Locals("validatedRating", &RateCourseRequest{
			Rating:  rating,
			Comment: strings.TrimSpace(body.Comment),
		})
		return c.Next()
	}
}

func parseJSONCourse(c *fiber.Ctx) (*CreateCourseRequest, error) {
	body := new(struct {
		Name          string          `json:"name"`
		Teacher       string          `json:"teacher"`
		Image         string          `json:"image"`
		PricingType   string          `json:"pricingType"`
		Price         json.RawMessage `json:"price"`
		Overview      string          `json:"overview"`
		Description   string          `json:"description"`
		TotalDuration json.RawMessage `json:"totalDuration"`
		TotalLectures json.RawMessage `json:"totalLectures"`
		Lectures      json.RawMessage `json:"lectures"`
		CourseType    string          `json:"courseType"`
		Category      string          `json:"category"`
		CreatedBy     string          `json:"createdBy"`
	})
	if err := c.BodyParser(body); err != nil {
		return nil, err
	}

	overview := body.Overview
	if overview == "" {
		overview = body.Description
	}

	totalLectures, _ := decodeNumber(body.TotalLectures)

	return &CreateCourseRequest{
		Name:          body.Name,
		Teacher:       body.Teacher,
		Image:         body.Image,
		PricingType:   body.PricingType,
		Price:         decodePrice(body.Price),
		Overview:      overview,
		TotalDuration: decodeDuration(body.TotalDuration),
		TotalLectures: int(totalLectures),
		Lectures:      decodeLectures(body.Lectures),
		CourseType:    body.CourseType,
		Category:      body.Category,
		CreatedBy:     body.CreatedBy,
	}, nil
}

func parseMultipartCourse(c *fiber.Ctx) *CreateCourseRequest {
	overview := c.FormValue("overview")
	if overview == "" {
		overview = c.FormValue("description")
	}

	price := decodePrice(json.RawMessage(c.FormValue("price")))
	if price == (models.Price{}) {
		price = models.Price{
			Original: toNumber(c.FormValue("price.original")),
			Sale:     toNumber(c.FormValue("price.sale")),
		}
	}

	totalDuration := decodeDuration(json.RawMessage(c.FormValue("totalDuration")))
	if totalDuration == (models.Duration{}) {
		totalDuration = models.Duration{
			Hours:   toNumber(c.FormValue("totalDuration.hours")),
			Minutes: toNumber(c.FormValue("totalDuration.minutes")),
		}
	}

	return &CreateCourseRequest{
		Name:          c.FormValue("name"),
		Teacher:       c.FormValue("teacher"),
		Image:         c.FormValue("image"),
		PricingType:   c.FormValue("pricingType"),
		Price:         price,
		Overview:      overview,
		TotalDuration: totalDuration,
		TotalLectures: int(toNumber(c.FormValue("totalLectures"))),
		Lectures:      decodeLectures(json.RawMessage(c.FormValue("lectures"))),
		CourseType:    c.FormValue("courseType"),
		Category:      c.FormValue("category"),
		CreatedBy:     c.FormValue("createdBy"),
	}
}

// decodePrice reads a price object, or a JSON string wrapping one.
func decodePrice(raw json.RawMessage) models.Price {
	var price models.Price
	if unmarshalMaybeQuoted(raw, &price) {
		return price
	}
	return models.Price{}
}

func decodeDuration(raw json.RawMessage) models.Duration {
	var d models.Duration
	if unmarshalMaybeQuoted(raw, &d) {
		return d
	}
	return models.Duration{}
}

func decodeLectures(raw json.RawMessage) []models.Lecture {
	var lectures []models.Lecture
	if unmarshalMaybeQuoted(raw, &lectures) {
		return lectures
	}
	return []models.Lecture{}
}

// unmarshalMaybeQuoted unmarshals raw into v, unwrapping one level of JSON
// string encoding if present.
func unmarshalMaybeQuoted(raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, v); err == nil {
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return json.Unmarshal([]byte(s), v) == nil
	}
	return false
}

// decodeNumber accepts a JSON number or a numeric string.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseFloat(s)
	}
	return parseFloat(string(raw))
}

// toNumber is the lenient form-field coercion: empty or non-numeric
// values become 0 instead of an error.
func toNumber(s string) float64 {
	n, ok := parseFloat(s)
	if !ok {
		return 0
	}
	return n
}

func parseFloat(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
