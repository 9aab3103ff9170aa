package compose

import "html/template"

// Status badge colors carried over from the admin UI palette.
var statusColors = map[string]string{
	"interested":     "#28a745",
	"not_interested": "#dc3545",
	"pending":        "#6f42c1",
	"hold":           "#ffc107",
	"processing":     "#17a2b8",
}

var loanStatusColors = map[string]string{
	"approved":   "#28a745",
	"processing": "#17a2b8",
	"hold":       "#ffc107",
	"rejected":   "#dc3545",
	"soon":       "#6c757d",
}

const defaultBadgeColor = "#6c757d"

const baseStyle = `
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 8px; text-align: center; margin-bottom: 30px; }
        .content { line-height: 1.6; color: #333; }
        .client-info { background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .info-row { display: flex; justify-content: space-between; margin: 10px 0; padding: 8px 0; border-bottom: 1px solid #eee; }
        .info-label { font-weight: bold; color: #555; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
        .status-badge { padding: 4px 12px; border-radius: 20px; font-size: 12px; font-weight: bold; color: white; }
        .status-highlight { background-color: #e7f3ff; border: 1px solid #b3d9ff; padding: 15px; border-radius: 8px; margin: 20px 0; text-align: center; }`

var staffTemplate = template.Must(template.New("staff").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + baseStyle + `</style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Client {{.UpdateKind}} Notification</h1>
            <p>{{.Brand}}</p>
        </div>
        <div class="content">
            <p>Dear Team,</p>
            <p>A client has been <strong>{{.UpdateKindLower}}</strong> by <strong>{{.Actor}}</strong> in the {{.Brand}} system.</p>
            <div class="client-info">
                <h3>Client Details</h3>
                <div class="info-row"><span class="info-label">Legal Name:</span> <span>{{.LegalName}}</span></div>
                <div class="info-row"><span class="info-label">Trade Name:</span> <span>{{.TradeName}}</span></div>
                <div class="info-row"><span class="info-label">Registration Number:</span> <span>{{.RegistrationNumber}}</span></div>
                <div class="info-row"><span class="info-label">Constitution Type:</span> <span>{{.ConstitutionType}}</span></div>
                <div class="info-row"><span class="info-label">Mobile Number:</span> <span>{{.MobileNumber}}</span></div>
                <div class="info-row"><span class="info-label">Status:</span> <span class="status-badge" style="background-color: {{.StatusColor}};">{{.Status}}</span></div>
                <div class="info-row"><span class="info-label">Loan Status:</span> <span class="status-badge" style="background-color: {{.LoanStatusColor}};">{{.LoanStatus}}</span></div>
                <div class="info-row"><span class="info-label">User Email:</span> <span>{{.UserEmail}}</span></div>
                <div class="info-row"><span class="info-label">Company Email:</span> <span>{{.CompanyEmail}}</span></div>
            </div>
            <p><strong>Updated by:</strong> {{.Actor}}</p>
            <p><strong>Updated on:</strong> {{.UpdatedAt}}</p>
            <p>Please log in to the {{.Brand}} system to view complete client details.</p>
            <p>Best regards,<br><strong>{{.Brand}} System</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated notification from the {{.Brand}} system.</p>
        </div>
    </div>
</body>
</html>`))

var clientTemplate = template.Must(template.New("client").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + baseStyle + `</style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Your Business Application Status Update</h1>
        </div>
        <div class="content">
            <p>Dear Client,</p>
            <p>Your business application has been <strong>{{.UpdateKindLower}}</strong>.</p>
            <div class="client-info">
                <h3>Application Details</h3>
                <div class="info-row"><span class="info-label">Legal Name:</span> <span>{{.LegalName}}</span></div>
                <div class="info-row"><span class="info-label">Trade Name:</span> <span>{{.TradeName}}</span></div>
                <div class="info-row"><span class="info-label">Registration Number:</span> <span>{{.RegistrationNumber}}</span></div>
                <div class="info-row"><span class="info-label">Constitution Type:</span> <span>{{.ConstitutionType}}</span></div>
                <div class="info-row"><span class="info-label">Mobile Number:</span> <span>{{.MobileNumber}}</span></div>
                <div class="info-row"><span class="info-label">Status:</span> <span class="status-badge" style="background-color: {{.StatusColor}};">{{.Status}}</span></div>
                <div class="info-row"><span class="info-label">Loan Status:</span> <span class="status-badge" style="background-color: {{.LoanStatusColor}};">{{.LoanStatus}}</span></div>
            </div>
            <p><strong>Updated on:</strong> {{.UpdatedAt}}</p>
            <p>If you have any questions about your application, please reply to this email or contact our support team.</p>
            <p>Best regards,<br><strong>Business Application Team</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated notification from the {{.Brand}} system.</p>
        </div>
    </div>
</body>
</html>`))

var loanStatusTemplate = template.Must(template.New("loanStatus").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>` + baseStyle + `</style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Your Loan Status Update</h1>
        </div>
        <div class="content">
            <p>Dear <strong>{{.ClientName}}</strong>,</p>
            <div class="status-highlight">
                <h3>Your loan status is <strong style="color: {{.LoanStatusColor}};">{{.LoanStatusUpper}}</strong></h3>
            </div>
            <p><strong>Updated on:</strong> {{.UpdatedAt}}</p>
            <p>If you have any questions about your loan status, please reply to this email or contact our support team.</p>
            <p>Best regards,<br><strong>{{.Brand}} Team</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated notification from the {{.Brand}} system.</p>
        </div>
    </div>
</body>
</html>`))
