package bili

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"bvget/internal/entity"
	"bvget/internal/errs"
)

type viewData struct {
	BVID     string `json:"bvid"`
	AID      int64  `json:"aid"`
	CID      int64  `json:"cid"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Pic      string `json:"pic"`
	Duration int    `json:"duration"`
	Owner    struct {
		MID  int64  `json:"mid"`
		Name string `json:"name"`
	} `json:"owner"`
	Pages []struct {
		CID      int64  `json:"cid"`
		Page     int    `json:"page"`
		Part     string `json:"part"`
		Duration int    `json:"duration"`
	} `json:"pages"`
}

// View fetches video metadata for a BVID.
func (c *Client) View(ctx context.Context, bvid string) (*entity.Video, error) {
	u := fmt.Sprintf("%s/x/web-interface/view?bvid=%s", c.cfg.Bili.APIBase, url.QueryEscape(bvid))

	var data viewData
	if err := c.getJSON(ctx, u, &data); err != nil {
		return nil, fmt.Errorf("view %s: %w", bvid, err)
	}

	video := &entity.Video{
		BVID:     data.BVID,
		AID:      data.AID,
		CID:      data.CID,
		Title:    data.Title,
		Desc:     data.Desc,
		Owner:    data.Owner.Name,
		CoverURL: data.Pic,
		Duration: data.Duration,
	}

	for _, p := range data.Pages {
		video.Pages = append(video.Pages, entity.Page{
			CID:      p.CID,
			Index:    p.Page,
			Part:     p.Part,
			Duration: p.Duration,
		})
	}

	return video, nil
}

// PlayURL fetches stream information for a bvid/cid pair at the requested
// quality. fnval=4048 asks for dash streams up to 4K, fourk=1 unlocks 4K for
// eligible sessions.
func (c *Client) PlayURL(ctx context.Context, bvid string, cid int64, qn int) (*PlayInfo, error) {
	q := url.Values{}
	q.Set("bvid", bvid)
	q.Set("cid", strconv.FormatInt(cid, 10))
	q.Set("qn", strconv.Itoa(qn))
	q.Set("fnval", strconv.Itoa(fnvalDASH))
	q.Set("fourk", "1")

	u := fmt.Sprintf("%s/x/player/playurl?%s", c.cfg.Bili.APIBase, q.Encode())

	var info PlayInfo
	if err := c.getJSON(ctx, u, &info); err != nil {
		return nil, fmt.Errorf("playurl %s cid=%d qn=%d: %w", bvid, cid, qn, err)
	}

	return &info, nil
}

type navData struct {
	IsLogin bool   `json:"isLogin"`
	MID     int64  `json:"mid"`
	Uname   string `json:"uname"`
	Face    string `json:"face"`
	VIP     struct {
		Status int `json:"vipStatus"`
		Type   int `json:"vipType"`
	} `json:"vip"`
}

// Nav returns the identity of the current session, or nil when the session
// is anonymous. The nav endpoint answers a non-zero code for logged-out
// sessions, which is not an error here.
func (c *Client) Nav(ctx context.Context) (*entity.User, error) {
	u := c.cfg.Bili.APIBase + "/x/web-interface/nav"

	var data navData

	err := c.getJSON(ctx, u, &data)
	if errors.Is(err, errs.ErrAPICode) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("nav: %w", err)
	}

	if !data.IsLogin {
		return nil, nil
	}

	return &entity.User{
		MID:      data.MID,
		Name:     data.Uname,
		Face:     data.Face,
		IsLogin:  true,
		VIPLevel: data.VIP.Status,
	}, nil
}
