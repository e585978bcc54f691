package routes

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"

	"miami-getaway-server/models"
	"miami-getaway-server/storage"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var pendingReservations int64
	storage.DB.Model(&models.Reservation{}).Where("status = ?", "pending").Count(&pendingReservations)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newRes7, newRes30 int64
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since7).Count(&newRes7)
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since30).Count(&newRes30)

	var outstanding float64
	storage.DB.Model(&models.Reservation{}).
		Where("payment_status <> ? AND status <> ?", "complete", "cancelled").
		Select("COALESCE(SUM(amount_due), 0)").Scan(&outstanding)

	var arrivals7 int64
	storage.DB.Model(&models.Reservation{}).
		Where("check_in >= ? AND check_in < ? AND status <> ?", time.Now(), time.Now().AddDate(0, 0, 7), "cancelled").
		Count(&arrivals7)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_reservations": pendingReservations,
			"new_reservations_7d":  newRes7,
			"new_reservations_30d": newRes30,
			"outstanding_balance":  outstanding,
			"arrivals_next_7d":     arrivals7,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}

type exportJob struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Status    string `json:"status"` // pending, processing, done, failed
	CreatedAt int64  `json:"created_at"`

	data []byte
}

var (
	exportJobs   = map[string]*exportJob{}
	exportJobsMu sync.Mutex
)

// POST /admin/export { resource: "reservations" | "payments" }
func AdminCreateExport(ctx iris.Context) {
	var body struct {
		Resource string `json:"resource"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Resource == "" {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": "invalid_payload", "message": "resource required"})
		return
	}
	if body.Resource != "reservations" && body.Resource != "payments" {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": "invalid_payload", "message": "resource must be reservations or payments"})
		return
	}

	job := &exportJob{ID: uuid.NewString(), Resource: body.Resource, Status: "pending", CreatedAt: time.Now().Unix()}
	exportJobsMu.Lock()
	exportJobs[job.ID] = job
	exportJobsMu.Unlock()

	go runExport(job)

	ctx.JSON(iris.Map{"data": iris.Map{"id": job.ID, "status": job.Status}})
}

// GET /admin/export/:id
func AdminGetExport(ctx iris.Context) {
	id := ctx.Params().GetString("id")
	exportJobsMu.Lock()
	job, ok := exportJobs[id]
	exportJobsMu.Unlock()
	if !ok {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "not_found", "message": "job not found"})
		return
	}
	if job.Status == "done" && ctx.URLParamDefault("download", "") == "true" {
		ctx.ContentType("text/csv")
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, job.Resource))
		ctx.Write(job.data)
		return
	}
	ctx.JSON(iris.Map{"data": iris.Map{"id": job.ID, "resource": job.Resource, "status": job.Status}})
}

func runExport(job *exportJob) {
	exportJobsMu.Lock()
	job.Status = "processing"
	exportJobsMu.Unlock()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	var err error
	switch job.Resource {
	case "reservations":
		err = exportReservations(w)
	case "payments":
		err = exportPayments(w)
	}
	w.Flush()
	if err == nil {
		err = w.Error()
	}

	exportJobsMu.Lock()
	defer exportJobsMu.Unlock()
	if err != nil {
		job.Status = "failed"
		return
	}
	job.data = buf.Bytes()
	job.Status = "done"
}

func exportReservations(w *csv.Writer) error {
	var reservations []models.Reservation
	if err := storage.DB.Order("id ASC").Find(&reservations).Error; err != nil {
		return err
	}
	w.Write([]string{"id", "apartment_id", "client_name", "check_in", "check_out", "nights", "total_amount", "amount_paid", "amount_due", "payment_status", "status"})
	for i := range reservations {
		r := &reservations[i]
		w.Write([]string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatUint(uint64(r.ApartmentID), 10),
			r.ClientName,
			r.CheckIn.Format("2006-01-02"),
			r.CheckOut.Format("2006-01-02"),
			strconv.Itoa(r.Nights),
			fmt.Sprintf("%.2f", r.TotalAmount),
			fmt.Sprintf("%.2f", r.AmountPaid),
			fmt.Sprintf("%.2f", r.AmountDue),
			r.PaymentStatus,
			r.Status,
		})
	}
	return nil
}

func exportPayments(w *csv.Writer) error {
	var payments []models.Payment
	if err := storage.DB.Order("id ASC").Find(&payments).Error; err != nil {
		return err
	}
	w.Write([]string{"id", "reservation_id", "amount", "method", "reference", "paid_at"})
	for i := range payments {
		p := &payments[i]
		w.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			strconv.FormatUint(uint64(p.ReservationID), 10),
			fmt.Sprintf("%.2f", p.Amount),
			p.Method,
			p.Reference,
			p.PaidAt.Format(time.RFC3339),
		})
	}
	return nil
}
