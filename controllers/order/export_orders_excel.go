package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/natalia-kut/OnlineShop/services/orders"
	"github.com/tealeg/xlsx"
)

// GET /admin/orders/export
func ExportOrdersToExcel(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderID", "UserID", "Status", "TotalPrice", "CreatedAt",
			"ProductName", "Quantity", "UnitPrice", "Notes",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// One row per line item; order columns repeat.
		for _, o := range list {
			for _, it := range o.Items {
				row := sheet.AddRow()
				row.AddCell().SetValue(o.ID)
				row.AddCell().SetValue(o.UserID)
				row.AddCell().SetValue(o.Status)
				row.AddCell().SetValue(o.TotalPrice.String())
				row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
				row.AddCell().SetValue(it.ProductName)
				row.AddCell().SetValue(it.Quantity)
				row.AddCell().SetValue(it.UnitPrice.String())
				row.AddCell().SetValue(it.Notes)
			}
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
