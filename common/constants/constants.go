package constants

import "math"

const (
	ChainName = "contentos-reward"

	CoinSymbol   = "COS"
	VestSymbol   = "VEST"
	StableSymbol = "CSD"

	NoticeRewardEvent = "rewardevent"
	NoticeBlockPaid   = "blockpaid"

	BlockInterval = 3
	BlocksPerYear = 60 * 60 * 24 * 365 / BlockInterval

	CoinDecimals = 1000
	TotalSupply  = 10000000000 * CoinDecimals
	// years over which the mint budget is released
	MintYears = 12

	PERCENT    = 10000
	OnePercent = PERCENT / 100

	// an "infinite" cashout time: content already paid or never scheduled
	CashoutNever uint32 = math.MaxUint32

	CashoutWindowSeconds         = 60 * 60 * 24 * 7
	CashoutWindowSecondsStandard = 60 * 60 * 12
	CashoutWindowSecondsLegacy   = 60 * 60 * 24
	SecondCashoutWindow          = 60 * 60 * 24 * 30
	MaxCashoutWindowSeconds      = 60 * 60 * 24 * 14

	UpvoteLockout               = 60
	ReverseAuctionWindowSeconds = 60 * 30
	MinVoteIntervalSeconds      = 3

	VoteRegenerationSeconds = 60 * 60 * 24 * 5
	VoteRegenerationPerDay  = 40
	VoteDustThreshold       = 50000000

	MaxVoteChanges = 5
	// num_changes of a vote kept only for display after its content paid out
	VoteChangesPaid = -1

	RecentRSharesDecaySeconds = 60 * 60 * 24 * 30

	ContentConstant uint64 = 2000000000000

	PostRewardFundName    = "post"
	CommentRewardFundName = "comment"

	PostRewardFundPercent    = 75 * OnePercent
	CommentRewardFundPercent = 25 * OnePercent

	CurationPercentLegacy   = 50 * OnePercent
	CurationPercentStandard = 25 * OnePercent

	MaxBeneficiaries = 8
	MaxCommentDepth  = 255

	// 0.020 stable units, three decimals
	MinPayoutStable = 20

	MaxAcceptedPayout uint64 = 1000000000 * 1000

	InitialVestsPerCoin = 1000
)
