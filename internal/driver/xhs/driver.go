// Playwright implementation of the PageDriver contract for the
// XiaoHongShu ad platform's content inspiration dashboard.

package xhs

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-xhs-note-automation/internal/browser"
	"go-xhs-note-automation/internal/driver"
	"go-xhs-note-automation/utils"
)

const (
	adPlatformURL  = "https://ad.xiaohongshu.com/"
	inspirationURL = "https://ad.xiaohongshu.com/microapp/traffic-guide/contentInspiration/"

	gotoTimeout   = 30000
	modalTimeout  = 10000
	locateTimeout = 5000
)

var (
	loginButtonText = regexp.MustCompile(`^账号登录$`)
	detailHeader    = regexp.MustCompile(`^笔记详情$`)
)

// Driver drives the core-notes grid and its detail modal through one
// browser page.
type Driver struct {
	page  playwright.Page
	shots *utils.ScreenShotDebugger
}

var _ driver.PageDriver = (*Driver)(nil)

func NewDriver(page playwright.Page) *Driver {
	return &Driver{
		page:  page,
		shots: utils.NewScreenShotDebugger(),
	}
}

// Login opens the ad platform and signs in, unless the cookie-seeded
// session is already authenticated.
func (d *Driver) Login(ctx context.Context, email, password string) error {
	log.Println("🏠 Navigating to XiaoHongShu ad platform...")
	if _, err := d.page.Goto(adPlatformURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(gotoTimeout),
	}); err != nil {
		return fmt.Errorf("goto ad platform: %w", err)
	}

	loginButton := d.page.Locator("div").Filter(playwright.LocatorFilterOptions{HasText: loginButtonText})
	count, err := loginButton.Count()
	if err != nil {
		return fmt.Errorf("detect login state: %w", err)
	}
	if count == 0 {
		log.Println("✅ Already logged in via cookies")
		return nil
	}

	log.Println("🔐 Not logged in, submitting credentials...")
	if email == "" || password == "" {
		return fmt.Errorf("login required but no credentials configured")
	}

	if err := loginButton.First().Click(); err != nil {
		return fmt.Errorf("open login form: %w", err)
	}
	if err := d.page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{Name: "邮箱"}).Fill(email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := d.page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{Name: "密码"}).Fill(password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := d.page.Locator(".d-checkbox-indicator").First().Click(); err != nil {
		return fmt.Errorf("accept terms checkbox: %w", err)
	}
	if err := d.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "登 录"}).Click(); err != nil {
		d.shots.CaptureAndLog(d.page, "xhs-login", "🚨 Login submit failed")
		return fmt.Errorf("submit login: %w", err)
	}

	log.Println("✅ Login submitted")
	return nil
}

// GotoListPage opens the content inspiration page and scrolls to the
// core-notes block. Page indexes above 1 are reached by clicking next.
func (d *Driver) GotoListPage(ctx context.Context, pageNum int) error {
	if _, err := d.page.Goto(inspirationURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(gotoTimeout),
	}); err != nil {
		d.shots.CaptureAndLog(d.page, "xhs-inspiration", "🚨 Content inspiration page did not load")
		return fmt.Errorf("goto content inspiration: %w", err)
	}

	heading := d.page.GetByRole(*playwright.AriaRoleHeading, playwright.PageGetByRoleOptions{Name: "核心笔记"})
	if err := heading.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll to core notes: %w", err)
	}
	if err := heading.Click(); err != nil {
		return fmt.Errorf("focus core notes: %w", err)
	}

	for i := 1; i < pageNum; i++ {
		if err := d.NextPage(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) ListCandidateTitles(ctx context.Context) ([]string, error) {
	if err := d.page.Locator(".grid-card").First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(modalTimeout),
	}); err != nil {
		d.shots.CaptureAndLog(d.page, "xhs-note-grid", "🚨 Core notes grid did not load")
		return nil, fmt.Errorf("note grid did not load: %w", err)
	}

	//human behavior
	browser.RandomDelay(500, 1200)
	browser.MouseJiggle(d.page)

	items, err := d.page.Locator(`[class*="d-grid-item"][style*="grid-area: span 1 / span 4"]`).All()
	if err != nil {
		return nil, fmt.Errorf("locate note cards: %w", err)
	}

	var titles []string
	for _, item := range items {
		text, err := item.Locator(".title").TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(locateTimeout),
		})
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

func (d *Driver) NextPage(ctx context.Context) error {
	//the pager exposes no stable class, the original XPath still holds
	btn := d.page.Locator(`//*[@id="content-core-notes"]/div[3]/div[2]/div[2]/div[1]/div[9]`)
	count, err := btn.Count()
	if err != nil {
		return fmt.Errorf("locate next page control: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("next page control not found")
	}
	if err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(locateTimeout)}); err != nil {
		d.shots.CaptureAndLog(d.page, "xhs-next-page", "🚨 Next page click failed")
		return fmt.Errorf("click next page: %w", err)
	}

	browser.RandomDelay(1000, 2000)
	return nil
}

func (d *Driver) OpenDetail(ctx context.Context, title string) error {
	// re-anchor on the core notes block so the title click lands in
	// the right grid
	if err := d.page.GetByRole(*playwright.AriaRoleHeading, playwright.PageGetByRoleOptions{Name: "核心笔记"}).Click(); err != nil {
		return fmt.Errorf("focus core notes: %w", err)
	}
	browser.RandomDelay(300, 700)

	if err := d.page.Locator("#content-core-notes").GetByText(title).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(locateTimeout),
	}); err != nil {
		d.shots.CaptureAndLog(d.page, "xhs-open-detail", "🚨 Note title click failed")
		return fmt.Errorf("click note title: %w", err)
	}

	if err := d.page.Locator(".interaction-title").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(modalTimeout),
	}); err != nil {
		return fmt.Errorf("detail modal did not open: %w", err)
	}
	return nil
}

func (d *Driver) DetailTitle(ctx context.Context) (string, error) {
	text, err := d.page.Locator(".interaction-title").TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(locateTimeout),
	})
	if err != nil {
		return "", fmt.Errorf("read modal title: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// CopyCanonicalURL clicks the dashboard's copy-link control and reads
// the clipboard. The context must be created with clipboard-read
// permission.
func (d *Driver) CopyCanonicalURL(ctx context.Context) (string, error) {
	if err := d.page.GetByText("复制小红书笔记链接").Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(locateTimeout),
	}); err != nil {
		return "", fmt.Errorf("click copy link: %w", err)
	}
	browser.RandomDelay(300, 600)

	v, err := d.page.Evaluate("navigator.clipboard.readText()")
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	url, _ := v.(string)
	return strings.TrimSpace(url), nil
}

func (d *Driver) ReadMetricRows(ctx context.Context) ([]driver.MetricRow, error) {
	items, err := d.page.Locator(".interaction-card-item").All()
	if err != nil {
		return nil, fmt.Errorf("locate metric rows: %w", err)
	}

	var rows []driver.MetricRow
	for _, item := range items {
		label, err := item.Locator(".interaction-card-item-label text").TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(locateTimeout),
		})
		if err != nil {
			continue
		}
		value, err := item.Locator(".interaction-card-item-value").TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(locateTimeout),
		})
		if err != nil {
			value = ""
		}
		rows = append(rows, driver.MetricRow{
			Label:    strings.TrimSpace(label),
			RawValue: strings.TrimSpace(value),
		})
	}
	return rows, nil
}

func (d *Driver) CloseDetail(ctx context.Context) error {
	closeButton := d.page.Locator("div").
		Filter(playwright.LocatorFilterOptions{HasText: detailHeader}).
		GetByRole(*playwright.AriaRoleImg)
	if err := closeButton.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(locateTimeout)}); err != nil {
		return fmt.Errorf("close detail modal: %w", err)
	}

	//wait for the modal to actually disappear before the next action
	if err := d.page.Locator(".interaction-title").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(locateTimeout),
	}); err != nil {
		return fmt.Errorf("detail modal did not close: %w", err)
	}
	return nil
}
