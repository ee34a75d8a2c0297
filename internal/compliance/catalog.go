package compliance

const (
	CategoryAdministrative = "Administrative Safeguards"
	CategoryPhysical       = "Physical Safeguards"
	CategoryTechnical      = "Technical Safeguards"
	CategoryPrivacy        = "Privacy Rule Requirements"
	CategoryBreach         = "Breach Notification Rule"
	CategoryAssociates     = "Business Associate Agreements"
	CategoryDocumentation  = "Documentation & Record-Keeping"
	CategoryMonitoring     = "Ongoing Monitoring & Auditing"
)

var Categories = []string{
	CategoryAdministrative,
	CategoryPhysical,
	CategoryTechnical,
	CategoryPrivacy,
	CategoryBreach,
	CategoryAssociates,
	CategoryDocumentation,
	CategoryMonitoring,
}

// Control — одна строка встроенного чек-листа.
type Control struct {
	ID          string
	Title       string
	Description string
	Category    string
}

// Catalog — чек-лист, которым заполняется пустая база.
var Catalog = []Control{
	{"A.1", "Appoint a HIPAA Privacy Officer and HIPAA Security Officer", "Designate and document individuals responsible for HIPAA privacy and security compliance within the organization.", CategoryAdministrative},
	{"A.2", "Conduct and document a risk assessment of PHI and ePHI", "Perform comprehensive risk analysis to identify potential threats and vulnerabilities to protected health information.", CategoryAdministrative},
	{"A.3", "Implement a risk management plan", "Develop and execute strategies to address identified risks and reduce them to acceptable levels.", CategoryAdministrative},
	{"A.4", "Develop and enforce policies and procedures", "Create comprehensive written policies and procedures for HIPAA compliance and ensure workforce adherence.", CategoryAdministrative},
	{"A.5", "Train all employees on HIPAA policies and security awareness", "Provide regular training to all workforce members on HIPAA requirements and security best practices.", CategoryAdministrative},
	{"A.6", "Perform periodic security audits and reviews", "Conduct regular assessments to evaluate compliance with HIPAA Security Rule requirements.", CategoryAdministrative},
	{"A.7", "Implement sanction policies for violations", "Establish and enforce disciplinary procedures for workforce members who violate HIPAA policies.", CategoryAdministrative},

	{"P.1", "Control facility access to areas where ePHI is stored", "Implement physical access controls to restrict entry to locations containing electronic protected health information.", CategoryPhysical},
	{"P.2", "Implement workstation use and security policies", "Establish policies governing the proper use and security of workstations that access ePHI.", CategoryPhysical},
	{"P.3", "Secure mobile devices and portable media", "Implement safeguards to protect ePHI on mobile devices and portable storage media.", CategoryPhysical},
	{"P.4", "Protect and monitor server rooms and equipment", "Secure server rooms and critical equipment with appropriate physical controls and monitoring.", CategoryPhysical},

	{"T.1", "Implement access controls (unique user IDs, emergency access)", "Establish unique user identification and emergency access procedures for ePHI systems.", CategoryTechnical},
	{"T.2", "Use encryption for ePHI in transit and at rest", "Implement encryption technologies to protect ePHI during transmission and storage.", CategoryTechnical},
	{"T.3", "Enable audit controls to log access to ePHI", "Implement mechanisms to record and examine activity in information systems containing ePHI.", CategoryTechnical},
	{"T.4", "Use automatic logoff and session timeouts", "Configure systems to automatically terminate sessions after periods of inactivity.", CategoryTechnical},
	{"T.5", "Ensure data integrity mechanisms are in place", "Implement policies and procedures to protect ePHI from improper alteration or destruction.", CategoryTechnical},
	{"T.6", "Implement transmission security (e.g., TLS, VPN)", "Use technical security measures to guard against unauthorized access to ePHI during transmission.", CategoryTechnical},

	{"PR.1", "Provide Notice of Privacy Practices (NPP) to patients", "Distribute written notice explaining how the organization uses and discloses PHI.", CategoryPrivacy},
	{"PR.2", "Limit use/disclosure of PHI to the minimum necessary", "Implement policies to use or disclose only the minimum PHI necessary for the intended purpose.", CategoryPrivacy},
	{"PR.3", "Obtain authorization for non-routine disclosures", "Secure written permission from individuals before using or disclosing PHI for non-routine purposes.", CategoryPrivacy},
	{"PR.4", "Grant individuals access to their health records", "Provide individuals with access to inspect and obtain copies of their PHI.", CategoryPrivacy},
	{"PR.5", "Allow corrections/amendments to PHI", "Establish procedures for individuals to request corrections or amendments to their PHI.", CategoryPrivacy},
	{"PR.6", "Implement policies for handling requests for restriction", "Develop procedures to address individual requests to restrict certain uses and disclosures of PHI.", CategoryPrivacy},
	{"PR.7", "Verify identity before disclosing PHI", "Implement reasonable procedures to verify the identity of individuals requesting PHI.", CategoryPrivacy},

	{"BN.1", "Develop a Breach Notification Policy", "Create comprehensive policies and procedures for identifying and responding to breaches of unsecured PHI.", CategoryBreach},
	{"BN.2", "Maintain a log of all security incidents and breaches", "Document all security incidents and breaches for tracking and reporting purposes.", CategoryBreach},
	{"BN.3", "Notify affected individuals within 60 days of discovery", "Provide notification to individuals whose unsecured PHI has been compromised within required timeframe.", CategoryBreach},
	{"BN.4", "Notify the HHS Office for Civil Rights (OCR)", "Report breaches to OCR according to established timelines based on number of affected individuals.", CategoryBreach},
	{"BN.5", "Notify the media (if >500 individuals affected in a region)", "Provide media notification for breaches affecting more than 500 individuals in a state or region.", CategoryBreach},

	{"BA.1", "Identify all business associates (vendors handling PHI)", "Maintain comprehensive inventory of all business associates who create, receive, maintain, or transmit PHI.", CategoryAssociates},
	{"BA.2", "Execute HIPAA-compliant BAAs with each associate", "Establish written agreements ensuring business associates comply with applicable HIPAA requirements.", CategoryAssociates},
	{"BA.3", "Ensure business associates are HIPAA compliant", "Verify that business associates have appropriate safeguards and compliance measures in place.", CategoryAssociates},
	{"BA.4", "Review BAAs regularly for compliance updates", "Periodically review and update business associate agreements to maintain HIPAA compliance.", CategoryAssociates},

	{"DR.1", "Maintain HIPAA-related policies and procedures for 6 years", "Retain all HIPAA-related documentation for the required six-year retention period.", CategoryDocumentation},
	{"DR.2", "Keep records of training, risk assessments, and compliance efforts", "Document all training activities, risk assessments, and compliance initiatives for audit purposes.", CategoryDocumentation},
	{"DR.3", "Document all breach investigations and outcomes", "Maintain comprehensive records of breach investigations, findings, and remediation actions.", CategoryDocumentation},

	{"OA.1", "Conduct periodic internal audits", "Perform regular internal assessments to evaluate ongoing compliance with HIPAA requirements.", CategoryMonitoring},
	{"OA.2", "Review access logs for unauthorized activity", "Regularly examine system access logs to identify and investigate suspicious or unauthorized activities.", CategoryMonitoring},
	{"OA.3", "Monitor compliance with technical and physical safeguards", "Continuously assess adherence to technical and physical security measures.", CategoryMonitoring},
	{"OA.4", "Update policies/procedures as needed", "Maintain current policies and procedures by updating them based on changes in operations or regulations.", CategoryMonitoring},
}
